// Command bcdiag runs the breast-cancer diagnostic workflow end to end
// and prints the accuracy of each candidate classifier.
package main

import (
	"fmt"
	"os"

	"github.com/YuminosukeSato/bcdiag/pipeline"
	"github.com/YuminosukeSato/bcdiag/pkg/log"
)

func main() {
	log.SetupLogger("info")

	if _, err := pipeline.Run(pipeline.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "bcdiag: %+v\n", err)
		os.Exit(1)
	}
}
