// Package main is a command line tool for inspecting Extended Unified Camera Model calibrations:
// it unprojects pixels, projects camera-frame points, and checks that the two agree.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/eucm/camgeom"
	"go.viam.com/eucm/eucm"
	"go.viam.com/eucm/logging"
	"go.viam.com/eucm/utils"
)

const (
	// Flags.
	flagCalibration = "calibration"
	flagLogLevel    = "log-level"
	flagPrecision   = "precision"
	flagWidth       = "width"
	flagHeight      = "height"
	flagStep        = "step"
	flagBorder      = "border"
	flagTolerance   = "tolerance"
	flagParallel    = "parallel"
)

func main() {
	logger := logging.NewLogger("eucm")
	if err := newApp(os.Stdout, logger).Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp(out io.Writer, logger logging.Logger) *cli.App {
	calibration := &cli.StringFlag{
		Name:     flagCalibration,
		Aliases:  []string{"c"},
		Usage:    "load EUCM parameters from JSON `FILE`",
		EnvVars:  []string{"EUCM_CALIBRATION"},
		Required: true,
	}
	precision := &cli.IntFlag{
		Name:  flagPrecision,
		Usage: "floating point width to compute in, 32 or 64",
		Value: 64,
	}

	return &cli.App{
		Name:      "eucm",
		Usage:     "work with extended unified camera model calibrations",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "one of debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"EUCM_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.LevelFromString(c.String(flagLogLevel))
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the calibration and whether it is in the model's domain",
				Flags: []cli.Flag{
					calibration,
					&cli.IntFlag{Name: flagWidth, Usage: "sensor width in pixels, to report the field of view"},
					&cli.IntFlag{Name: flagHeight, Usage: "sensor height in pixels, to report the field of view"},
				},
				Action: func(c *cli.Context) error {
					return showAction(c, out, logger)
				},
			},
			{
				Name:      "unproject",
				Usage:     "print the unit viewing ray through each pixel",
				ArgsUsage: "u,v [u,v ...]",
				Flags:     []cli.Flag{calibration, precision},
				Action: func(c *cli.Context) error {
					switch c.Int(flagPrecision) {
					case 32:
						return unprojectAction[float32](c, out, logger)
					case 64:
						return unprojectAction[float64](c, out, logger)
					}
					return errPrecision(c)
				},
			},
			{
				Name:      "project",
				Usage:     "print the pixel each camera-frame point projects to",
				ArgsUsage: "x,y,z [x,y,z ...]",
				Flags:     []cli.Flag{calibration, precision},
				Action: func(c *cli.Context) error {
					switch c.Int(flagPrecision) {
					case 32:
						return projectAction[float32](c, out, logger)
					case 64:
						return projectAction[float64](c, out, logger)
					}
					return errPrecision(c)
				},
			},
			{
				Name:  "roundtrip",
				Usage: "unproject a grid of pixels, project them back and report the error",
				Flags: []cli.Flag{
					calibration,
					precision,
					&cli.IntFlag{Name: flagWidth, Usage: "sensor width in pixels", Value: 1920},
					&cli.IntFlag{Name: flagHeight, Usage: "sensor height in pixels", Value: 1080},
					&cli.IntFlag{Name: flagStep, Usage: "grid spacing in pixels", Value: 65},
					&cli.IntFlag{Name: flagBorder, Usage: "pixels to skip at each edge", Value: 5},
					&cli.Float64Flag{
						Name:  flagTolerance,
						Usage: "largest acceptable reprojection error in pixels (default 5e-3 at 32 bits, 1e-9 at 64)",
					},
					&cli.BoolFlag{Name: flagParallel, Usage: "split the grid across workers"},
				},
				Action: func(c *cli.Context) error {
					switch c.Int(flagPrecision) {
					case 32:
						return roundtripAction[float32](c, out, logger, 5e-3)
					case 64:
						return roundtripAction[float64](c, out, logger, 1e-9)
					}
					return errPrecision(c)
				},
			},
		},
	}
}

func errPrecision(c *cli.Context) error {
	return errors.Errorf("precision must be 32 or 64, got %d", c.Int(flagPrecision))
}

func loadParams[R camgeom.Real](c *cli.Context, logger logging.Logger) (*eucm.Params[R], error) {
	path := c.String(flagCalibration)
	params, err := eucm.NewParamsFromJSONFile[R](path)
	if err != nil {
		return nil, err
	}
	logger.Debugw("loaded calibration", "path", path, "params", params.Parameters())
	if err := params.CheckValid(); err != nil {
		logger.Warnw("calibration is outside the model's domain", "error", err)
	}
	return params, nil
}

func showAction(c *cli.Context, out io.Writer, logger logging.Logger) error {
	params, err := loadParams[float64](c, logger)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Parameter", "Value"})
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"fx", params.Fx}, {"fy", params.Fy},
		{"cx", params.Cx}, {"cy", params.Cy},
		{"alpha", params.Alpha}, {"beta", params.Beta},
	} {
		t.AppendRow(table.Row{row.name, strconv.FormatFloat(row.value, 'g', -1, 64)})
	}
	valid := "yes"
	if err := params.CheckValid(); err != nil {
		valid = err.Error()
	}
	t.AppendRow(table.Row{"valid", valid})
	if width, height := c.Int(flagWidth), c.Int(flagHeight); width > 0 && height > 0 {
		h, v, d := params.FieldOfView(width, height)
		for _, row := range []struct {
			name  string
			angle float64
		}{{"hfov", h}, {"vfov", v}, {"dfov", d}} {
			t.AppendRow(table.Row{row.name, fmt.Sprintf("%.2f°", utils.RadToDeg(row.angle))})
		}
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func unprojectAction[R camgeom.Real](c *cli.Context, out io.Writer, logger logging.Logger) error {
	params, err := loadParams[R](c, logger)
	if err != nil {
		return err
	}
	rows, err := parseRows(c.Args().Slice(), 2)
	if err != nil {
		return err
	}
	pixels := camgeom.NewPixels[R](len(rows))
	for i, row := range rows {
		pixels.Set(i, R(row[0]), R(row[1]))
	}
	rays := params.PixelToCamera(pixels)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"u", "v", "x", "y", "z", "valid"})
	for i := 0; i < rays.Len(); i++ {
		u, v := pixels.At(i)
		x, y, z := rays.Direction(i)
		t.AppendRow(table.Row{u, v, x, y, z, params.IsValidPixel(u, v)})
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func projectAction[R camgeom.Real](c *cli.Context, out io.Writer, logger logging.Logger) error {
	params, err := loadParams[R](c, logger)
	if err != nil {
		return err
	}
	rows, err := parseRows(c.Args().Slice(), 3)
	if err != nil {
		return err
	}
	points := camgeom.NewPoints[R](len(rows))
	for i, row := range rows {
		points.Set(i, R(row[0]), R(row[1]), R(row[2]))
	}
	pixels := params.CameraToPixel(points)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"x", "y", "z", "u", "v", "valid"})
	for i := 0; i < pixels.Len(); i++ {
		x, y, z := points.At(i)
		u, v := pixels.At(i)
		t.AppendRow(table.Row{x, y, z, u, v, params.IsValidPoint(x, y, z)})
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func roundtripAction[R camgeom.Real](c *cli.Context, out io.Writer, logger logging.Logger, defaultTolerance float64) error {
	params, err := loadParams[R](c, logger)
	if err != nil {
		return err
	}
	tolerance := c.Float64(flagTolerance)
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}

	pixels := camgeom.PixelGrid[R](c.Int(flagWidth), c.Int(flagHeight), c.Int(flagStep), c.Int(flagBorder))
	if pixels.Len() == 0 {
		return errors.New("grid is empty, check width, height, step and border")
	}

	var rays *camgeom.RayBundle[R]
	var reprojected *camgeom.Pixels[R]
	if c.Bool(flagParallel) {
		if rays, err = camgeom.ParallelPixelToCamera[R](c.Context, params, pixels); err != nil {
			return err
		}
		if reprojected, err = camgeom.ParallelCameraToPixel[R](c.Context, params, rays.PointsAt(1)); err != nil {
			return err
		}
	} else {
		rays = params.PixelToCamera(pixels)
		reprojected = params.CameraToPixel(rays.PointsAt(1))
	}

	errs := camgeom.PixelDistances(pixels, reprojected)
	var nonFinite int
	for i := 0; i < reprojected.Len(); i++ {
		if u, v := reprojected.At(i); !camgeom.IsFinite(u) || !camgeom.IsFinite(v) {
			nonFinite++
		}
	}
	logger.Debugw("roundtrip", "pixels", len(errs), "parallel", c.Bool(flagParallel))

	mean, std := stat.MeanStdDev(errs, nil)
	maxErr := floats.Max(errs)
	median, err := stats.Median(errs)
	if err != nil {
		return err
	}
	p95, err := stats.Percentile(errs, 95)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Pixels", "Non-finite", "Mean error", "Std dev", "Median error", "P95 error", "Max error", "Tolerance"})
	t.AppendRow(table.Row{len(errs), nonFinite, mean, std, median, p95, maxErr, tolerance})
	fmt.Fprintln(out, t.Render())

	if nonFinite > 0 || !(maxErr <= tolerance) {
		return errors.Errorf("reprojection error %g exceeds tolerance %g (%d non-finite)", maxErr, tolerance, nonFinite)
	}
	return nil
}

// parseRows parses arguments of the form "a,b[,c]" with exactly width components each.
func parseRows(args []string, width int) ([][]float64, error) {
	if len(args) == 0 {
		return nil, errors.New("no coordinates given")
	}
	rows := make([][]float64, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ",")
		if len(parts) != width {
			return nil, errors.Errorf("expected %d comma separated values, got %q", width, arg)
		}
		row := make([]float64, width)
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "bad coordinate in %q", arg)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
