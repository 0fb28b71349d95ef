package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hexlatch/sap8/bitbang"
	"github.com/hexlatch/sap8/compile"
	"github.com/hexlatch/sap8/sap"
)

func main() {
	var assemble string
	var transpile string
	var output string
	var write bool
	var verbose bool

	flag.StringVar(&assemble, "c", "", ".asm file to assemble")
	flag.StringVar(&transpile, "x", "", ".star script to transpile and assemble")
	flag.StringVar(&output, "o", "-", "Image output ('-' for a listing on stdout)")
	flag.BoolVar(&write, "w", false, "Program the image into the target over GPIO")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var source io.Reader
	switch {
	case assemble != "" && transpile != "":
		log.Fatalf("%v: -c and -x are exclusive", os.Args[0])
	case assemble != "":
		inf, err := os.Open(assemble)
		if err != nil {
			log.Fatalf("%v: %v", assemble, err)
		}
		defer inf.Close()
		source = inf
	case transpile != "":
		text, err := compile.Compile(transpile, nil)
		if err != nil {
			log.Fatalf("%v: %v", transpile, err)
		}
		if verbose {
			log.Print(text)
		}
		source = strings.NewReader(text)
	default:
		log.Fatalf("%v: nothing to do, need -c or -x", os.Args[0])
	}

	asm := &sap.Assembler{Verbose: verbose}
	img, err := asm.Parse(source)
	if err != nil {
		log.Fatal(err)
	}

	if output == "-" {
		fmt.Print(img.String())
	} else {
		if err = os.WriteFile(output, img.Bytes(), 0o644); err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if write {
		pins, err := bitbang.OpenHost(bitbang.DefaultHostConfig)
		if err != nil {
			log.Fatal(err)
		}
		pg, err := bitbang.NewProgrammer(pins)
		if err != nil {
			log.Fatal(err)
		}
		pg.Verbose = verbose
		if err = pg.Program(img); err != nil {
			log.Fatal(err)
		}
	}
}
