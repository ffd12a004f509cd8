// A small command line front end for the metadata and cover pipeline. It
// runs the full extraction chain on a single document and prints the result
// as JSON without touching any database, which makes it handy for checking
// what the server would store before actually uploading a file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rsanur/libra-go/internal/config"
	"github.com/rsanur/libra-go/internal/cover"
	"github.com/rsanur/libra-go/internal/pipeline"
	"github.com/rsanur/libra-go/internal/util"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	title := flag.String("title", "", "user-supplied title")
	author := flag.String("author", "", "user-supplied author")
	genre := flag.String("genre", "", "user-supplied genre")
	outDir := flag.String("out", "", "directory for generated covers (default: temporary)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <document>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	docPath := flag.Arg(0)
	if _, err := os.Stat(docPath); err != nil {
		log.Fatalf("Cannot read %s: %v", docPath, err)
	}

	coversDir := *outDir
	if coversDir == "" {
		tmp, err := os.MkdirTemp("", "libra-cli-*")
		if err != nil {
			log.Fatalf("Could not create output directory: %v", err)
		}
		defer os.RemoveAll(tmp)
		coversDir = tmp
	} else if err := util.EnsureDir(coversDir); err != nil {
		log.Fatalf("Could not prepare output directory: %v", err)
	}

	// A throwaway config scoped to the output directory. The CLI never
	// persists anything, so the books directory doubles as scratch space.
	cfg := config.Default()
	cfg.Uploads.CoversDir = coversDir
	cfg.Uploads.BooksDir = coversDir
	cfg.Uploads.TmpDir = coversDir

	synth := cover.NewSynthesizer(cfg)
	coord := pipeline.NewCoordinator(pipeline.NewFitzReader(), nil, synth, pipeline.Options{})

	input := pipeline.UserInput{Title: *title, Author: *author, Genre: *genre}
	result, err := coord.Process(context.Background(), docPath, "", input, false)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Could not encode result: %v", err)
	}

	if *outDir == "" && result.Cover != nil {
		// The cover lives in a temp dir that is about to be removed.
		log.Printf("Note: cover written to a temporary directory; pass -out to keep it.")
	}
}
