// Command sniff reports the inferred CSV dialect and column types of a
// file.
package main

import (
	"errors"
	"fmt"
	"os"

	csvsniffer "github.com/eltorocorp/csvsniffer"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <path>\n", os.Args[0])
		os.Exit(1)
	}

	metadata, err := csvsniffer.New().SniffPath(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		if errors.Is(err, csvsniffer.ErrSniffingFailed) {
			return
		}
		os.Exit(1)
	}

	fmt.Println(metadata.String())
}
