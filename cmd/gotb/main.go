// main.go --  This file is part of goTB project.
// Mirzaeva Irina, 2023
//
//	goTB is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	gotb "github.com/MirzaevaIV/goTB"
)

var (
	logFname  string
	verbosity int

	logger *slog.Logger
	output io.Writer = io.Discard
)

var (
	rootCmd = &cobra.Command{
		Use:           "gotb",
		Short:         "Tight-binding Hamiltonians: spectra, bands and transmission",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLog(logFname, verbosity)
		},
	}
	eigenCmd = &cobra.Command{
		Use:   "eigen CONFIG",
		Short: "Eigenvalues of the isolated structure",
		Args:  cobra.ExactArgs(1),
		RunE:  runEigen,
	}
	bandsCmd = &cobra.Command{
		Use:   "bands CONFIG",
		Short: "Band structure along the k-point path",
		Args:  cobra.ExactArgs(1),
		RunE:  runBands,
	}
	transmissionCmd = &cobra.Command{
		Use:   "transmission CONFIG",
		Short: "Transmission and density of states of a periodic wire",
		Args:  cobra.ExactArgs(1),
		RunE:  runTransmission,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logFname, "log", "", "append the run log to this file")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 1, "0 warnings, 1 info, 2 debug")
	rootCmd.AddCommand(eigenCmd, bandsCmd, transmissionCmd)
}

func initLog(fname string, verbosity int) error {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	output = io.Discard
	if fname != "" {
		file, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrap(err, "open log")
		}
		w = io.MultiWriter(os.Stderr, file)
		output = file
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

func appInfo() {
	fmt.Fprint(output, "\n   goTB | tight-binding Hamiltonians\n"+
		"        | Author: Mirzaeva Irina Valerievna\n"+
		"        | Nikolaev Institute of Inorganic Chemistry SB RAS (http://niic.nsc.ru/)\n"+
		"        | Novosibirsk, Russia\n\n")
}

func printOutputDelimiter() {
	fmt.Fprintln(output, strings.Repeat("-", 70))
}

// setup echoes the configuration into the run log and builds the model.
func setup(fname string) (*gotb.Config, *gotb.Hamiltonian, error) {
	appInfo()
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open config")
	}
	lines, err := gotb.ReadFileLines(f)
	f.Close()
	if err != nil {
		return nil, nil, errors.Wrap(err, "read config")
	}
	fmt.Fprintln(output, "Input file content:")
	printOutputDelimiter()
	for _, l := range lines {
		fmt.Fprintln(output, l)
	}
	printOutputDelimiter()

	cfg, err := gotb.LoadConfig(fname)
	if err != nil {
		return nil, nil, err
	}
	h, err := cfg.Build(gotb.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return cfg, h, nil
}

func runEigen(cmd *cobra.Command, args []string) error {
	_, h, err := setup(args[0])
	if err != nil {
		return err
	}
	vals, _, err := h.Diagonalize()
	if err != nil {
		return err
	}
	rows := make([][]float64, len(vals))
	for i, v := range vals {
		rows[i] = []float64{float64(i), v}
	}
	logger.Info("diagonalized", "size", len(vals))
	return gotb.WriteColumns(cmd.OutOrStdout(), rows)
}

func runBands(cmd *cobra.Command, args []string) error {
	cfg, h, err := setup(args[0])
	if err != nil {
		return err
	}
	path := cfg.Path()
	if len(path) == 0 {
		return errors.Wrap(gotb.ErrInvalidConfig, "no k_points")
	}
	bands, err := gotb.BandStructure(h, path)
	if err != nil {
		return err
	}
	dist := gotb.PathLength(path)
	rows := make([][]float64, len(bands))
	for i := range bands {
		rows[i] = append([]float64{dist[i]}, bands[i]...)
	}
	logger.Info("band structure", "k_points", len(path))
	return gotb.WriteColumns(cmd.OutOrStdout(), rows)
}

func runTransmission(cmd *cobra.Command, args []string) error {
	cfg, h, err := setup(args[0])
	if err != nil {
		return err
	}
	energies := cfg.Energies()
	if len(energies) == 0 {
		return errors.Wrap(gotb.ErrInvalidConfig, "no energy range")
	}
	hl, h0, hr, err := h.CouplingHamiltonians()
	if err != nil {
		return err
	}
	if verbosity >= 2 {
		for _, m := range []struct {
			title string
			m     *mat.CDense
		}{{"h0", h0}, {"hl", hl}, {"hr", hr}} {
			fmt.Fprintf(output, "Coupling matrix %s:\n%s", m.title, gotb.FormatCDense(m.m))
		}
		printOutputDelimiter()
	}
	points, err := gotb.TransmissionSpectrum(cmd.Context(), energies, hl, h0, hr, cfg.Workers)
	if err != nil {
		return err
	}
	rows := make([][]float64, len(points))
	for i, p := range points {
		rows[i] = []float64{p.Energy, p.Transmission, p.DOS}
	}
	logger.Info("transmission", "energies", len(energies))
	return gotb.WriteColumns(cmd.OutOrStdout(), rows)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "gotb:", err)
		os.Exit(1)
	}
}
