package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/soundsteps/phonics-backend/internal/config"
	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/logger"
	"github.com/soundsteps/phonics-backend/internal/sheet"
)

func main() {
	var setLetter string
	var outPath string
	flag.StringVar(&setLetter, "set", "", "Set letter to render (e.g. A)")
	flag.StringVar(&outPath, "out", "", "Output file (default: sheet_<set>.html)")
	flag.Parse()

	if setLetter == "" {
		printUsage()
		os.Exit(2)
	}

	cfg := config.Load()
	zlog := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	library, err := content.Load(cfg.ContentDir, zlog)
	if err != nil {
		log.Fatalf("Content load failed: %v", err)
	}

	if !library.HasSet(setLetter) {
		log.Fatalf("Unknown set %q; available sets: %v", setLetter, library.SetLetters())
	}

	seq, err := library.ResolveSet(setLetter)
	if err != nil {
		log.Fatalf("Set resolution failed: %v", err)
	}

	if outPath == "" {
		outPath = fmt.Sprintf("sheet_%s.html", setLetter)
	}

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("Create output failed: %v", err)
	}
	defer f.Close()

	if err := sheet.Render(f, setLetter, seq); err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	fmt.Printf("Wrote %d-question answer sheet for set %s to %s\n", len(seq), setLetter, outPath)
}

func printUsage() {
	fmt.Println("Usage: answer-sheet -set <letter> [-out <file>]")
	fmt.Println("Renders the printable answer sheet for a competition set.")
}
