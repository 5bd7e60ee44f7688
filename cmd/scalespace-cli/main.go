package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eventual-recluse/scalespace"
	"github.com/eventual-recluse/scalespace/cmd"
	"github.com/eventual-recluse/scalespace/explorer"
	"github.com/eventual-recluse/scalespace/report"
	"github.com/eventual-recluse/scalespace/rpc"
	"github.com/eventual-recluse/scalespace/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("c", "", "Read parameters, paths and block settings from a .yml config file. Flags override the config.")
	x := flag.Float64("x", math.NaN(), "X coordinate of the control point, between -1 and 1.")
	y := flag.Float64("y", math.NaN(), "Y coordinate of the control point, between -1 and 1.")
	var scl, kbm [explorer.NumSlots]*string
	for i := range scl {
		scl[i] = flag.String("scl"+strconv.Itoa(i+1), "", fmt.Sprintf("Path of the .scl file of tuning %d.", i+1))
		kbm[i] = flag.String("kbm"+strconv.Itoa(i+1), "", fmt.Sprintf("Path of the .kbm file of tuning %d.", i+1))
	}
	blockSize := flag.Int("b", 0, fmt.Sprintf("Block size in frames (default %d).", cmd.DefaultBlockSize))
	blocks := flag.Int("n", -1, fmt.Sprintf("Number of blocks to process (default %d).", cmd.DefaultBlocks))
	rawOut := flag.Bool("r", false, "Output the final frequency table as a .raw file of 128 little-endian float64s.")
	csvOut := flag.Bool("csv", false, "Output the final frequency table as a .csv file.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, the working directory.")
	templateName := flag.String("t", "summary.txt", "Template used to print the result: summary.txt, table.txt, table.csv, or the path of a custom template file.")
	rpcAddr := flag.String("rpc", "", "Send the table of every block to a receiver at this address.")
	listenAddr := flag.String("listen", "", "Do not process anything; receive tables at this address and print each with the template.")
	idle := flag.Duration("idle", 0, "In listen mode, stop after no table has arrived for this long. Zero listens forever.")
	midiPort := flag.String("midi", "", "Retune the first MIDI output whose name starts with this, using MIDI Tuning Standard messages.")
	versionFlag := flag.Bool("v", false, "Print version.")
	help := flag.Bool("h", false, "Show help.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		return 0
	}
	if *help {
		flag.Usage()
		return 0
	}
	renderer, name, err := newRenderer(*templateName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if *listenAddr != "" {
		if err := listen(*listenAddr, *idle, renderer, name); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		return 0
	}
	cfg := cmd.DefaultConfig()
	if *configFile != "" {
		if cfg, err = cmd.ReadConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x":
			cfg.Parameters[explorer.Parameters[explorer.ParameterX].Symbol] = *x
		case "y":
			cfg.Parameters[explorer.Parameters[explorer.ParameterY].Symbol] = *y
		case "b":
			cfg.BlockSize = *blockSize
		case "n":
			cfg.Blocks = *blocks
		}
	})
	for i := range scl {
		if *scl[i] != "" {
			cfg.States[explorer.StateKeys[explorer.StateFileSCL1+i]] = *scl[i]
		}
		if *kbm[i] != "" {
			cfg.States[explorer.StateKeys[explorer.StateFileKBM1+i]] = *kbm[i]
		}
	}
	if cfg.BlockSize <= 0 || cfg.Blocks < 0 {
		fmt.Fprintf(os.Stderr, "block size must be positive and block count non-negative, got %v and %v\n", cfg.BlockSize, cfg.Blocks)
		return 1
	}
	var sinks scalespace.MultiSink
	if *rpcAddr != "" {
		sender, err := rpc.Sender(*rpcAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not connect to %v: %v\n", *rpcAddr, err)
			return 1
		}
		defer sender.Close()
		sinks = append(sinks, sender)
	}
	if *midiPort != "" {
		sink, closer, err := cmd.NewMIDISink(*midiPort, 0x7F, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		defer closer()
		sinks = append(sinks, sink)
	}
	broker := explorer.NewBroker()
	model, processor := explorer.NewModelProcessor(broker, sinks)
	model.ApplyDocument(cfg.StateDocument)
	retval := 0
loop:
	for {
		select {
		case msg := <-broker.ToHost:
			if r, ok := msg.(explorer.LoadResult); ok && r.Reportable() {
				fmt.Fprintf(os.Stderr, "%v: %v\n", r.Key, r.Message())
				retval = 1
			}
		default:
			break loop
		}
	}
	for i := 0; i < cfg.Blocks; i++ {
		processor.Process(cfg.BlockSize)
	}
	table := processor.Table()
	out, err := renderer.Render(name, report.Collect(model, table))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	os.Stdout.Write(out)
	if *rawOut {
		raw, err := table.Raw()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not generate .raw file: %v\n", err)
			return 1
		}
		if err := output(*directory, ".raw", raw); err != nil {
			fmt.Fprintf(os.Stderr, "error outputting .raw file: %v\n", err)
			return 1
		}
	}
	if *csvOut {
		if err := output(*directory, ".csv", table.CSV()); err != nil {
			fmt.Fprintf(os.Stderr, "error outputting .csv file: %v\n", err)
			return 1
		}
	}
	return retval
}

func newRenderer(template string) (*report.Renderer, string, error) {
	if info, err := os.Stat(template); err == nil && !info.IsDir() {
		r, err := report.NewFromTemplates(filepath.Dir(template))
		return r, filepath.Base(template), err
	}
	r, err := report.New()
	return r, template, err
}

func listen(addr string, idle time.Duration, renderer *report.Renderer, name string) error {
	tables, err := rpc.Receiver(addr)
	if err != nil {
		return fmt.Errorf("could not listen at %v: %v", addr, err)
	}
	for {
		var table scalespace.FrequencyTable
		var ok bool
		if idle > 0 {
			table, ok = explorer.TimeoutReceive(tables, idle)
		} else {
			table, ok = <-tables
		}
		if !ok {
			return nil
		}
		out, err := renderer.Render(name, report.FromTable(table))
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
	}
}

func output(dir, extension string, contents []byte) error {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
		}
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %v", dir, err)
	}
	f := filepath.Join(dir, "scalespace"+extension)
	if err := os.WriteFile(f, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", f, err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "ScaleSpace command line utility for blending .scl/.kbm tunings.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
