package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/engine"
	"github.com/tartampluch/go-fortune/internal/locale"
	"github.com/tartampluch/go-fortune/internal/server"
)

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CmdRoot,
		Short:         config.DescRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.initLogging {
				c.logCloser = setupLogging(c.debug)
				logStartupInfo()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDebug)
	flags.StringVar(&c.configPath, config.FlagConfig, "", config.FlagDescConfig)
	flags.BoolVar(&c.ephemeral, config.FlagEphemeral, false, config.FlagDescEphemeral)

	root.AddCommand(
		newOnboardCmd(c),
		newProfileCmd(c),
		newFortuneCmd(c),
		newClearCmd(c),
		newStatusCmd(c),
		newServeCmd(c),
		&cobra.Command{
			Use:   config.CmdVersion,
			Short: config.DescVersion,
			Run: func(cmd *cobra.Command, args []string) {
				printVersion(cmd.OutOrStdout())
			},
		},
	)
	return root
}

// -----------------------------------------------------------------------------
// Profile
// -----------------------------------------------------------------------------

type onboardOptions struct {
	date, timeOfDay, timezone string
	lat, lon                  float64
	vcard, vcardUser          string
}

func newOnboardCmd(c *cli) *cobra.Command {
	var o onboardOptions
	cmd := &cobra.Command{
		Use:   config.CmdOnboard,
		Short: config.DescOnboard,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bd, err := o.birthDetails(ctx)
			if err != nil {
				return err
			}

			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			p, err := a.assembler.CreateProfile(ctx, bd)
			if err != nil {
				return err
			}
			if err := a.profiles.Save(ctx, p); err != nil {
				return err
			}

			slog.InfoContext(ctx, config.MsgProfileCreated,
				config.LogKeyComponent, config.CompProfile,
				config.LogKeyAnimal, p.Zodiac.Animal,
				config.LogKeyElement, p.Zodiac.Element,
				config.LogKeyYear, p.Zodiac.Year,
			)
			printProfile(cmd.OutOrStdout(), a.catalog, p)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.date, config.FlagDate, "", config.FlagDescDate)
	f.StringVar(&o.timeOfDay, config.FlagTime, "", config.FlagDescTime)
	f.Float64Var(&o.lat, config.FlagLat, 0, config.FlagDescLat)
	f.Float64Var(&o.lon, config.FlagLon, 0, config.FlagDescLon)
	f.StringVar(&o.timezone, config.FlagTimezone, config.DefaultTimezone, config.FlagDescTimezone)
	f.StringVar(&o.vcard, config.FlagVCard, "", config.FlagDescVCard)
	f.StringVar(&o.vcardUser, config.FlagVCardUser, "", config.FlagDescVCardUser)
	cmd.MarkFlagsMutuallyExclusive(config.FlagDate, config.FlagVCard)
	return cmd
}

func (o onboardOptions) birthDetails(ctx context.Context) (astro.BirthDetails, error) {
	switch {
	case o.vcard != "":
		rc, err := engine.OpenVCard(ctx, engine.NewHTTPFetcher(), o.vcard, o.vcardUser, os.Getenv(config.EnvVCardPwd))
		if err != nil {
			return astro.BirthDetails{}, err
		}
		defer func() { _ = rc.Close() }()
		return engine.BirthDetailsFromVCard(rc)

	case o.date != "":
		date, err := time.Parse(config.DateFormatFullDash, o.date)
		if err != nil {
			return astro.BirthDetails{}, fmt.Errorf("%s: %w", config.ErrInvalidDate, err)
		}
		return astro.NewBirthDetails(date, o.timeOfDay, astro.Location{
			Latitude:  o.lat,
			Longitude: o.lon,
			Timezone:  o.timezone,
		})

	default:
		return astro.BirthDetails{}, errors.New(config.ErrBirthInput)
	}
}

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdProfile,
		Short: config.DescProfile,
	}

	show := &cobra.Command{
		Use:   config.CmdShow,
		Short: config.DescShow,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, p, err := c.loadProfile(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), a.catalog, p)
			return nil
		},
	}

	export := &cobra.Command{
		Use:   config.CmdExport,
		Short: config.DescExport,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := c.loadProfile(cmd.Context())
			if err != nil {
				return err
			}
			data, err := engine.ExportProfile(p)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(args[0], data, config.FilePermUserRW); err != nil {
				return fmt.Errorf("%s: %w", config.ErrWriteFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), config.OutExported, args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   config.CmdImport,
		Short: config.DescImport,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrReadFile, err)
			}
			p, err := engine.ImportProfile(data)
			if err != nil {
				return err
			}
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.profiles.Save(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), config.OutImported, p.MysticalNickname)
			return nil
		},
	}

	cmd.AddCommand(show, export, imp)
	return cmd
}

func (c *cli) loadProfile(ctx context.Context) (*app, *engine.Profile, error) {
	a, err := c.newApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := a.profiles.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, errors.New(config.ErrProfileMissing)
	}
	return a, p, nil
}

func printProfile(w io.Writer, cat *locale.Catalog, p *engine.Profile) {
	fmt.Fprintf(w, config.OutNickname, p.MysticalNickname)
	fmt.Fprintf(w, config.OutZodiac,
		cat.Element(string(p.Zodiac.Element)), cat.Animal(string(p.Zodiac.Animal)), p.Zodiac.Year)

	labels := [4]string{config.LabelYear, config.LabelMonth, config.LabelDay, config.LabelHour}
	descs := p.PillarDescriptions.All()
	for i, pl := range p.Pillars.All() {
		fmt.Fprintf(w, config.OutPillar, labels[i], pl.Stem, pl.Branch, descs[i])
	}
	fmt.Fprintf(w, config.OutEssence, p.EssenceSummary)
}

// -----------------------------------------------------------------------------
// Fortune
// -----------------------------------------------------------------------------

func newFortuneCmd(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   config.CmdFortune,
		Short: config.DescFortune,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			p, err := a.profiles.Load(ctx)
			if err != nil {
				return err
			}

			if !force {
				if f := a.manager.GetCachedFortune(); f != nil {
					printFortune(out, f)
					return nil
				}
			}

			var f *engine.Fortune
			if force {
				f, err = a.manager.ForceRefreshFortune(ctx, p)
			} else {
				f, err = a.manager.GenerateFortune(ctx, p)
			}
			if errors.Is(err, engine.ErrCooldownActive) {
				fmt.Fprintf(out, config.OutCooldown, a.manager.GetFormattedTimeUntilNext())
				return nil
			}
			if err != nil {
				return err
			}
			printFortune(out, f)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, config.FlagForce, false, config.FlagDescForce)
	return cmd
}

func printFortune(w io.Writer, f *engine.Fortune) {
	fmt.Fprintf(w, config.OutFortune, f.DecorativeElements.Ideogram, f.Message, f.DecorativeElements.Signature)
	fmt.Fprintf(w, config.OutFortuneExpiry, f.ExpiresAt.Local().Format(config.TimeLayoutOut))
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdClear,
		Short: config.DescClear,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.manager.ClearFortune(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.OutCleared)
			return nil
		},
	}
}

var stateKeys = map[engine.State]string{
	engine.StateNoFortune:         config.TKeyStateNone,
	engine.StateFortuneActive:     config.TKeyStateActive,
	engine.StateFortuneExpired:    config.TKeyStateExpired,
	engine.StateConnectivityShown: config.TKeyStateOffline,
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdStatus,
		Short: config.DescStatus,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s := a.manager.Status()

			fmt.Fprintf(out, config.OutStatusLine, config.LabelState, a.catalog.Msg(stateKeys[s.State], nil))
			fmt.Fprintf(out, config.OutStatusLine, config.LabelNext, s.TimeUntilNext)
			if s.LastFortuneAt != nil {
				fmt.Fprintf(out, config.OutStatusLine, config.LabelLast, s.LastFortuneAt.Local().Format(config.TimeLayoutOut))
			}
			if s.Fortune != nil {
				printFortune(out, s.Fortune)
			}
			return nil
		},
	}
}

// -----------------------------------------------------------------------------
// Serve
// -----------------------------------------------------------------------------

func newServeCmd(c *cli) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.DescServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			if port == "" {
				port = a.settings.Server.Port
			}

			srv := server.NewFortuneServer(port)
			publish(a.manager, srv)

			serverError := make(chan error, config.ChannelBufferSize)
			go func() {
				serverError <- srv.Start(ctx)
			}()
			fmt.Fprintf(cmd.OutOrStdout(), config.OutServing,
				config.LocalhostBindAddr, port, config.RouteFortune, config.RouteFortuneICS)

			ticker := time.NewTicker(config.DefaultRefreshTick)
			defer ticker.Stop()
			for {
				select {
				case err := <-serverError:
					slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
					return err
				case <-ticker.C:
					publish(a.manager, srv)
				}
			}
		},
	}
	cmd.Flags().StringVar(&port, config.FlagPort, "", config.FlagDescPort)
	return cmd
}

// publish pushes the manager's current status and feed to the server.
func publish(m *engine.Manager, srv *server.FortuneServer) {
	status, feed, err := m.Publish()
	if err != nil {
		slog.Warn(config.MsgPublishFailed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		return
	}
	srv.Update(status, feed)
}
