package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/roversim/internal/analysis"
	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/export"
	"github.com/san-kum/roversim/internal/rover"
	"github.com/san-kum/roversim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tINTEG\tCTRL\tREFUSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			len(run.Errors),
		)
	}

	return w.Flush()
}

// channels returns the output indices a command should look at.
func channels() ([]int, error) {
	if outputIdx >= rover.NumOutputs {
		return nil, fmt.Errorf("output index %d out of range [0, %d)", outputIdx, rover.NumOutputs)
	}
	if outputIdx >= 0 {
		return []int{outputIdx}, nil
	}
	return []int{rover.MeasX, rover.MeasY, rover.MeasU, rover.MeasAx, rover.MeasPsi, rover.MeasR}, nil
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Recording, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rec, err := st.LoadOutputs(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(rec.Times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, rec, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	idx, err := channels()
	if err != nil {
		return err
	}
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(rec.Times))

	for _, i := range idx {
		graph := asciigraph.Plot(rec.Column(i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(rover.OutputNames[i]),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func trackRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}

	north, east := rec.Column(rover.MeasX), rec.Column(rover.MeasY)
	minN, maxN, minE, maxE := analysis.Bounds(analysis.Track(north, east))

	fmt.Printf("ground track: %s\n", meta.ID)
	fmt.Printf("north [%.2f, %.2f] m, east [%.2f, %.2f] m\n\n", minN, maxN, minE, maxE)
	fmt.Print(analysis.TrajectoryToASCII(analysis.Track(east, north), 70, 20))
	fmt.Printf("\nLegend: S = start, E = end, north is up\n")

	if svgPath != "" {
		svg := export.TrajectoryToSVG(analysis.Track(north, east), 600, 600, "#00ffff")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("track written", "path", svgPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	idx, err := channels()
	if err != nil {
		return err
	}
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s (dt=%.4f)\n\n", meta.Name, meta.Dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OUTPUT\tMEAN\tSTD\tMIN\tMAX\tFINAL\tRMS\tDOMINANT_HZ")
	for _, i := range idx {
		col := rec.Column(i)
		s := analysis.Summarize(col)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\n",
			rover.OutputNames[i], s.Mean, s.StdDev, s.Min, s.Max, s.Final,
			analysis.RMS(col), analysis.DominantFrequency(col, meta.Dt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(idx) == 1 {
		_, power := analysis.PowerSpectrum(rec.Column(idx[0]), meta.Dt)
		if len(power) > 4 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(power[:len(power)/4],
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum ("+rover.OutputNames[idx[0]]+")"),
			))
		}
	}

	if len(meta.Metrics) > 0 {
		printMetrics(meta.Metrics)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, rover.OutputNames[:]...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, m := range rec.Outputs {
		row := []string{strconv.FormatFloat(rec.Times[i], 'f', 6, 64)}
		for _, val := range m.Vector() {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(args[0], os.Stdout)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCONTROLLER\tTF\tTS_ACT\tTS_SEN")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%.1fs\t%.3fs\t%.3fs\n", name, p.Controller, p.Sim.Tf, p.Rover.TsAct, p.Rover.TsSen)
	}
	return w.Flush()
}
