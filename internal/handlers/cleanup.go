package handlers

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// FileCleanupService periodically removes stale files from the local render
// scratch directory. Generated PDFs live in GCS; anything left on disk is a
// leftover from a failed render.
type FileCleanupService struct {
	outputDir string
	maxAge    time.Duration
	ticker    *time.Ticker
	done      chan bool
}

func NewFileCleanupService(outputDir string, maxAge time.Duration) *FileCleanupService {
	return &FileCleanupService{
		outputDir: outputDir,
		maxAge:    maxAge,
		done:      make(chan bool),
	}
}

func (fcs *FileCleanupService) Start() {
	fcs.ticker = time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-fcs.done:
				return
			case <-fcs.ticker.C:
				fcs.cleanupDirectory(fcs.outputDir)
			}
		}
	}()
	log.Println("File cleanup service started")
}

func (fcs *FileCleanupService) Stop() {
	if fcs.ticker != nil {
		fcs.ticker.Stop()
	}
	fcs.done <- true
	log.Println("File cleanup service stopped")
}

func (fcs *FileCleanupService) cleanupDirectory(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > fcs.maxAge {
			log.Printf("Cleaning up old file: %s", path)
			return os.Remove(path)
		}

		return nil
	})

	if err != nil {
		log.Printf("Error during cleanup of %s: %v", dir, err)
	}
}
