// Command tripctl manages trips from the terminal through the admin API.
//
//	tripctl [--url URL] [--token TOKEN] list
//	tripctl add --title T --start 2025-01-01 --return 2025-01-04 [--price N] [--seats N]
//	tripctl edit ID [--title T] [--status S] ...
//	tripctl delete ID [--yes]
//	tripctl stats
//
// The base url and token may also come from TRIPCTL_URL and TRIPCTL_TOKEN or
// a .tripctl.yaml file in the home directory.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/tripdesk/internal/apiclient"
	"github.com/joshua-takyi/tripdesk/internal/dashboard"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var errUsage = errors.New("usage: tripctl [flags] list|add|edit|delete|stats")

func main() {
	_ = godotenv.Load(".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "tripctl:", err)
		os.Exit(1)
	}
}

type app struct {
	orch   *dashboard.Orchestrator
	client *apiclient.Client
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := pflag.NewFlagSet("tripctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	global.String("url", "http://localhost:8080", "API base url")
	global.String("token", "", "admin access token")
	global.String("config", "", "config file (default $HOME/.tripctl.yaml)")
	global.BoolP("verbose", "v", false, "debug logging")
	if err := global.Parse(args); err != nil {
		return err
	}

	v, err := loadSettings(global)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(stderr, &tint.Options{Level: level, TimeFormat: time.Kitchen}))

	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}

	client, err := apiclient.New(v.GetString("url"), v.GetString("token"))
	if err != nil {
		return err
	}
	a := &app{
		orch:   dashboard.NewOrchestrator(client, logger),
		client: client,
		in:     bufio.NewReader(stdin),
		out:    stdout,
		logger: logger,
	}

	cmd, cmdArgs := rest[0], rest[1:]
	logger.Debug("running command", "command", cmd, "url", v.GetString("url"))
	switch cmd {
	case "list":
		return a.list(ctx)
	case "add":
		return a.add(ctx, cmdArgs, stderr)
	case "edit":
		return a.edit(ctx, cmdArgs, stderr)
	case "delete":
		return a.delete(ctx, cmdArgs, stderr)
	case "stats":
		return a.stats(ctx)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

// loadSettings layers flags over TRIPCTL_* env over the config file.
func loadSettings(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("TRIPCTL")
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if file, _ := fs.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".tripctl")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

func (a *app) list(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	return printTrips(a.out, a.orch.Snapshot().Trips)
}

func (a *app) add(ctx context.Context, args []string, stderr io.Writer) error {
	fs := tripFlags("add", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := inputFromFlags(fs, models.TripInput{})
	if err != nil {
		return err
	}

	if err := a.orch.OpenAdd(); err != nil {
		return err
	}
	if err := a.submit(ctx, in); err != nil {
		return err
	}
	trips := a.orch.Snapshot().Trips
	if len(trips) > 0 {
		fmt.Fprintf(a.out, "created trip %d\n", trips[len(trips)-1].ID)
	}
	return nil
}

func (a *app) edit(ctx context.Context, args []string, stderr io.Writer) error {
	fs := tripFlags("edit", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	if err := a.load(ctx); err != nil {
		return err
	}
	current, ok := findTrip(a.orch.Snapshot().Trips, id)
	if !ok {
		return fmt.Errorf("trip %d not found", id)
	}

	in, err := inputFromFlags(fs, models.TripInput{
		Title:      current.Title,
		StartDate:  current.StartDate,
		ReturnDate: current.ReturnDate,
		Duration:   current.Duration,
		Status:     current.Status,
		Price:      current.Price,
		Seats:      current.Seats,
		Image:      current.Image,
		Plans:      current.Plans,
	})
	if err != nil {
		return err
	}

	if err := a.orch.Edit(current); err != nil {
		return err
	}
	if err := a.submit(ctx, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated trip %d\n", id)
	return nil
}

func (a *app) delete(ctx context.Context, args []string, stderr io.Writer) error {
	fs := pflag.NewFlagSet("delete", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.BoolP("yes", "y", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	if err := a.orch.Delete(id); err != nil {
		return err
	}
	if !*yes && !a.confirm(fmt.Sprintf("Delete trip %d and all of its images? [y/N] ", id)) {
		fmt.Fprintln(a.out, "cancelled")
		return a.orch.CancelDelete()
	}

	if err := a.orch.ConfirmDelete(ctx); err != nil {
		return err
	}
	if msg := a.orch.Snapshot().LastError; msg != "" {
		return errors.New(msg)
	}
	fmt.Fprintf(a.out, "deleted trip %d\n", id)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	stats, err := a.client.Stats(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func (a *app) load(ctx context.Context) error {
	a.orch.Load(ctx)
	if msg := a.orch.Snapshot().LastError; msg != "" {
		return errors.New(msg)
	}
	return nil
}

// submit sends the open form. A failed call leaves the form open, so it is
// closed here before reporting.
func (a *app) submit(ctx context.Context, in models.TripInput) error {
	if err := a.orch.Submit(ctx, in); err != nil {
		return err
	}
	v := a.orch.Snapshot()
	if v.LastError != "" {
		_ = a.orch.Cancel()
		return errors.New(v.LastError)
	}
	return nil
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func tripFlags(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("title", "", "trip title")
	fs.String("start", "", "start date (YYYY-MM-DD)")
	fs.String("return", "", "return date (YYYY-MM-DD)")
	fs.String("duration", "", "human readable duration")
	fs.String("status", "", "trip status")
	fs.Float64("price", 0, "price per seat")
	fs.Int("seats", 0, "seat count")
	fs.StringSlice("image", nil, "image url (repeatable)")
	fs.StringSlice("plan", nil, "itinerary line (repeatable)")
	return fs
}

// inputFromFlags overlays the flags the user actually set onto base.
func inputFromFlags(fs *pflag.FlagSet, base models.TripInput) (models.TripInput, error) {
	in := base
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}

	set("title", func() (e error) { in.Title, e = fs.GetString("title"); return })
	set("start", func() (e error) { in.StartDate, e = fs.GetString("start"); return })
	set("return", func() (e error) { in.ReturnDate, e = fs.GetString("return"); return })
	set("duration", func() (e error) { in.Duration, e = fs.GetString("duration"); return })
	set("status", func() (e error) { in.Status, e = fs.GetString("status"); return })
	set("price", func() (e error) { in.Price, e = fs.GetFloat64("price"); return })
	set("seats", func() (e error) { in.Seats, e = fs.GetInt("seats"); return })
	set("image", func() (e error) { in.Image, e = fs.GetStringSlice("image"); return })
	set("plan", func() (e error) { in.Plans, e = fs.GetStringSlice("plan"); return })
	if err != nil {
		return models.TripInput{}, err
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.TripInput{}, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return in, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one trip id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid trip id %q", args[0])
	}
	return id, nil
}

func findTrip(trips []models.Trip, id int64) (models.Trip, bool) {
	for _, t := range trips {
		if t.ID == id {
			return t, true
		}
	}
	return models.Trip{}, false
}

func printTrips(w io.Writer, trips []models.Trip) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTART\tRETURN\tSTATUS\tPRICE\tSEATS")
	for _, t := range trips {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\t%d\n",
			t.ID, t.Title, t.StartDate, t.ReturnDate, t.Status, t.Price, t.Seats)
	}
	return tw.Flush()
}
