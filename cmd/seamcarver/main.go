package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/esimov/seamcarver"
	"github.com/esimov/seamcarver/utils"
)

const helpBanner = `
┌─┐┌─┐┌─┐┌┬┐┌─┐┌─┐┬─┐┬  ┬┌─┐┬─┐
└─┐├┤ ├─┤│││  ├─┤├┬┘└┐┌┘├┤ ├┬┘
└─┘└─┘┴ ┴┴ ┴└─┘┴ ┴┴└─ └┘ └─┘┴└─

Content aware image narrowing.
    Version: %s

Usage: seamcarver [flags] <image> <trim_width>

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Exit codes
const (
	exitOK = iota
	exitUsage
	exitInput
	exitCarve
	exitOutput
)

// Version indicates the current build version.
var Version string

var (
	// Flags
	destination = flag.String("out", "out.jpg", "Destination file, directory or `-` for stdout")
	percentage  = flag.Bool("perc", false, "Trim width expressed as a percentage of the image width")
	debug       = flag.Bool("debug", false, "Save the source image with the removed seams marked")
	seamColor   = flag.String("color", seamcarver.DefaultSeamColor, "Seam color used in debug mode")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		fatal(exitUsage, "\nPlease provide the source image and the number of columns to remove!")
	}

	trimWidth, err := strconv.ParseUint(flag.Arg(1), 10, 31)
	if err != nil {
		flag.Usage()
		fatal(exitUsage, fmt.Sprintf("\nInvalid trim width %q: it should be a non-negative integer", flag.Arg(1)))
	}
	if *debug {
		if _, err := utils.HexToRGBA(*seamColor); err != nil {
			fatal(exitUsage, err.Error())
		}
	}

	proc := &seamcarver.Processor{
		TrimWidth:  int(trimWidth),
		Percentage: *percentage,
		Debug:      *debug,
		SeamColor:  *seamColor,
	}
	op := &seamcarver.Ops{
		Src:      flag.Arg(0),
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}

	if err := proc.Execute(op); err != nil {
		fatal(exitCode(err), fmt.Sprintf("\nError: %v", err))
	}
}

// exitCode maps the error category to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, seamcarver.ErrOpenSource),
		errors.Is(err, seamcarver.ErrDecode):
		return exitInput
	case errors.Is(err, seamcarver.ErrCreateDestination),
		errors.Is(err, seamcarver.ErrEncode),
		errors.Is(err, seamcarver.ErrUnsupportedFormat):
		return exitOutput
	default:
		return exitCarve
	}
}

func fatal(code int, msg string) {
	fmt.Fprintln(os.Stderr, utils.DecorateText(msg, utils.ErrorMessage))
	os.Exit(code)
}
