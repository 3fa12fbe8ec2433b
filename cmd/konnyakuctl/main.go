// Command konnyakuctl inspects and edits the shell preferences stored by the desktop
// app. Run it while the app is closed; the app reads preferences at launch.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/konnyaku-app/konnyaku/internal/bootstrap"
	"github.com/konnyaku-app/konnyaku/internal/desktop"
	"github.com/konnyaku-app/konnyaku/internal/domain"
	"github.com/konnyaku-app/konnyaku/internal/logging"
	"github.com/konnyaku-app/konnyaku/internal/repository"
	"github.com/konnyaku-app/konnyaku/internal/version"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "konnyakuctl",
		Usage:   "manage " + version.AppName + " shell preferences",
		Version: version.Full(),
		Flags:   bootstrap.CLIFlags(),
		Writer:  out,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "show every preference with its effective value",
				Action: withStore(func(c *cli.Context, env *bootstrap.Env) error { return list(out, env) }),
			},
			{
				Name:      "set",
				Usage:     "store a preference",
				ArgsUsage: "<key> <true|false>",
				Action: withStore(func(c *cli.Context, env *bootstrap.Env) error {
					if c.NArg() != 2 {
						return errors.New("set needs a key and a value")
					}
					return set(env.Settings, c.Args().Get(0), c.Args().Get(1))
				}),
			},
			{
				Name:      "reset",
				Usage:     "forget stored preferences so the config defaults apply again",
				ArgsUsage: "[key...]",
				Action: withStore(func(c *cli.Context, env *bootstrap.Env) error {
					return reset(env.Settings, c.Args().Slice())
				}),
			},
			{
				Name:  "path",
				Usage: "print the data directory and config file in use",
				Action: func(c *cli.Context) error {
					env, err := bootstrap.Open(bootstrap.FlagsFrom(c))
					if err != nil {
						return err
					}
					fmt.Fprintln(out, "data dir:", env.DataDir)
					fmt.Fprintln(out, "config:  ", env.ConfigPath)
					return nil
				},
			},
		},
	}
}

// withStore opens the settings store around a command.
func withStore(fn func(*cli.Context, *bootstrap.Env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		env, err := bootstrap.Open(bootstrap.FlagsFrom(c))
		if err != nil {
			return err
		}
		defer env.Close()
		if err := env.OpenStore(); err != nil {
			return err
		}
		ctlLog := logging.Component(env.Log, "ctl")
		ctlLog.Debug().Str("command", c.Command.Name).Msg("running")
		return fn(c, env)
	}
}

func list(out io.Writer, env *bootstrap.Env) error {
	stored, err := env.Settings.GetAll()
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	byKey := make(map[string]*domain.Setting, len(stored))
	for _, s := range stored {
		byKey[s.Key] = s
	}

	effective := desktop.LoadPreferences(env.Settings, env.DefaultPreferences(), env.Log)
	values := map[string]bool{
		domain.SettingShowDockIcon:    effective.ShowDockIcon,
		domain.SettingShowStatusIcon:  effective.ShowStatusIcon,
		domain.SettingCloseOnExit:     effective.CloseOnExit,
		domain.SettingDevtoolsEnabled: effective.DevtoolsEnabled,
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE\tUPDATED")
	for _, key := range desktop.PreferenceKeys() {
		source, updated := "default", "-"
		if s, ok := byKey[key]; ok {
			source = "stored"
			updated = s.UpdatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", key, values[key], source, updated)
	}
	return w.Flush()
}

func set(repo repository.SettingRepository, key, raw string) error {
	if !slices.Contains(desktop.PreferenceKeys(), key) {
		return fmt.Errorf("unknown preference %q", key)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("preference %s wants true or false, got %q", key, raw)
	}
	return repo.Set(key, strconv.FormatBool(v))
}

func reset(repo repository.SettingRepository, keys []string) error {
	if len(keys) == 0 {
		keys = desktop.PreferenceKeys()
	}
	for _, key := range keys {
		if !slices.Contains(desktop.PreferenceKeys(), key) {
			return fmt.Errorf("unknown preference %q", key)
		}
		if err := repo.Delete(key); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}
