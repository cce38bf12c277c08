package ledframe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/ledframe/frame"
	"github.com/bodgit/ledframe/sample"
)

const scanWorkers = 10

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
}

func isImage(file string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]
	return ok
}

// framePath returns where the frame for file is written.
func framePath(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + frame.Extension
}

func (c *Converter) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			if info.Size() > maxFileSize {
				c.logger.Printf("Skipping \"%s\", too big\n", file)
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			r, err := c.ConvertFile(file)
			if errors.Is(err, sample.ErrEmptyInput) {
				c.logger.Printf("Skipping \"%s\", empty file\n", file)
				continue
			}
			if err != nil {
				errc <- err
				return
			}

			if r.Source == SourceSampled {
				c.logger.Printf("No decoder for \"%s\", frame was sampled\n", file)
			}

			m, err := r.Frame()
			if err != nil {
				errc <- err
				return
			}

			b, err := m.MarshalBinary()
			if err != nil {
				errc <- err
				return
			}

			if err := os.WriteFile(framePath(file), b, 0o644); err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

// waitForWorkers drains every error channel and returns the first error
// seen, calling cancel when it arrives. It only returns once all stages have
// exited, so no frame is still being written when Scan returns.
func waitForWorkers(cancel context.CancelFunc, errs ...<-chan error) error {
	var (
		wg    sync.WaitGroup
		once  sync.Once
		first error
	)
	wg.Add(len(errs))
	for _, errc := range errs {
		go func(errc <-chan error) {
			defer wg.Done()
			for err := range errc {
				if err != nil {
					once.Do(func() {
						first = err
						cancel()
					})
				}
			}
		}(errc)
	}
	wg.Wait()
	return first
}

// Scan walks path and writes a frame file alongside every image found.
func (c *Converter) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := c.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForWorkers(cancelFunc, errcList...)
}
