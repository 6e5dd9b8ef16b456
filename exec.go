package seamcarver

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/seamcarver/utils"
	"golang.org/x/term"
)

const (
	appName = "⚡ SEAMCARVER"

	// maxWorkers sets the maximum number of concurrently running workers.
	maxWorkers = 20
)

// Ops holds the source and destination of the resizing operation.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int

	spinner *utils.Spinner

	mu      sync.Mutex
	pending map[string]struct{} // destination files being written
}

// result holds the relevant information about the resizing process and the generated image.
type result struct {
	path string
	err  error
}

// Execute executes the image resizing process over a single file, a pipe, an URL
// or every supported image found in a directory. In the latter case the files
// are processed concurrently, each one by its own copy of the processor.
func (p *Processor) Execute(op *Ops) error {
	var (
		fs  os.FileInfo
		err error
	)
	defaultMsg := utils.StatusText(appName, "⇢ removing seams (be patient, it may take a while)...", utils.DefaultMessage)
	op.spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80, true)
	op.pending = make(map[string]struct{})

	src := op.Src
	// Check if source path is a local image or URL.
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOpenSource, err)
		}
		defer os.Remove(f.Name())
		defer f.Close()

		src = f.Name()
	}

	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenSource, err)
	}

	// Capture CTRL-C signal, restore the cursor visibility and remove the unfinished files.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	go func() {
		if _, ok := <-signalChan; ok {
			op.spinner.RestoreCursor()
			op.removePending()
			os.Exit(1)
		}
	}()

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		if err := os.MkdirAll(op.Dst, 0755); err != nil {
			return fmt.Errorf("%w: %w", ErrCreateDestination, err)
		}

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		// Process recursively the image files from the specified directory concurrently.
		ch := make(chan result)
		done := make(chan struct{})
		defer close(done)

		paths, errc := walkDir(done, src, SupportedExtensions)

		var wg sync.WaitGroup
		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(*p, op.Dst, ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		var errs []error
		for res := range ch {
			if res.err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", res.path, res.err))
			}
			op.printOpStatus(res.path, res.err)
		}
		if err := <-errc; err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrOpenSource, err))
		}
		err = errors.Join(errs...)

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		ext := filepath.Ext(op.Dst)
		if !isValidExtension(ext) && op.Dst != op.PipeName {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}

		err = op.process(p, src, op.Dst)
		op.printOpStatus(op.Dst, err)

	default:
		return fmt.Errorf("%w: %s is neither a file nor a directory", ErrOpenSource, op.Src)
	}

	if err == nil {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
			utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
		)
	}
	return err
}

// consumer reads the path names from the paths channel and calls the resizing processor against the source image.
// It receives the processor by value, so the workers do not share the per image state.
func (op *Ops) consumer(
	p Processor,
	dest string,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		dst := filepath.Join(dest, filepath.Base(src))
		err := op.process(&p, src, dst)

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// process calls the resizer method over the source image and returns the error in case exists.
func (op *Ops) process(p *Processor, in, out string) error {
	successMsg := utils.StatusText(appName, "⇢ the image has been resized successfully ✔\n", utils.SuccessMessage)
	errorMsg := utils.StatusText(appName, "resizing image failed... ✘\n", utils.ErrorMessage)

	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}
	defer closeFile(src)
	defer closeFile(dst)

	// Start the progress indicator.
	op.spinner.Start()
	err = p.Process(src, dst)
	if err == nil && p.Debug && out != op.PipeName {
		err = writeDebugImage(p, out)
	}
	op.done(out)

	if err != nil {
		// remove the generated image file in case of an error
		if out != op.PipeName {
			os.Remove(out)
			if p.Debug {
				os.Remove(DebugPath(out))
			}
		}
		op.spinner.StopMsg = errorMsg
		op.spinner.Stop()

		return err
	}
	op.spinner.StopMsg = successMsg
	op.spinner.Stop()

	return nil
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)

	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, fmt.Errorf("%w: `-` should be used with a pipe for stdin", ErrOpenSource)
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrOpenSource, err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeFile(src)
			return nil, nil, fmt.Errorf("%w: `-` should be used with a pipe for stdout", ErrCreateDestination)
		}
		dst = os.Stdout
	} else {
		op.mu.Lock()
		op.pending[out] = struct{}{}
		op.mu.Unlock()

		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			op.done(out)
			closeFile(src)
			return nil, nil, fmt.Errorf("%w: %w", ErrCreateDestination, err)
		}
	}
	return src, dst, nil
}

// done marks the destination file as completely written.
func (op *Ops) done(out string) {
	op.mu.Lock()
	delete(op.pending, out)
	op.mu.Unlock()
}

// removePending deletes the destination files which are still being written.
func (op *Ops) removePending() {
	op.mu.Lock()
	defer op.mu.Unlock()

	for out := range op.pending {
		os.Remove(out)
	}
}

// printOpStatus displays the relevant information about the image resizing process.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s",
			utils.DecorateText(fmt.Sprintf("\nError resizing the image %s", filepath.Base(fname)), utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// writeDebugImage saves the source image with the removed seams marked
// next to the destination file.
func writeDebugImage(p *Processor, out string) error {
	img, err := p.DebugImage()
	if err != nil {
		return err
	}

	f, err := os.Create(DebugPath(out))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateDestination, err)
	}
	defer closeFile(f)

	return encodeImg(f, img)
}

// DebugPath returns the name of the file the debug image is saved to.
func DebugPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_seams" + ext
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}

			fx := strings.ToLower(filepath.Ext(f.Name()))
			for _, ext := range srcExts {
				if ext == fx {
					select {
					case <-done:
						return errors.New("directory walk cancelled")
					case pathChan <- path:
					}
					break
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// closeFile closes the reader or writer in case it is a file other than the standard streams.
func closeFile(v any) {
	f, ok := v.(*os.File)
	if !ok || f == os.Stdin || f == os.Stdout {
		return
	}
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Printf("could not close the opened file: %v", err)
	}
}
