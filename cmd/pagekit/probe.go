package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/commands"
	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/harness"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

var probeCmd = &cobra.Command{
	Use:   "probe <url> <selector>",
	Short: "Check an element on a live page",
	Long: `Opens url in the configured browser, waits for the element, checks that it is
visible and prints its text. With --within the element is located inside a
container, exercising the recursive chain strategy.`,
	Example: `  pagekit probe https://example.com h1
  pagekit probe https://example.com "//a" --strategy xpath
  pagekit probe https://example.com a --within "div" --metrics-addr :9464 --hold`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := probeOptionsFrom(cmd, args)
		if err != nil {
			return err
		}
		applyProbeFlags(cmd, cfg)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runProbe(ctx, cmd.OutOrStdout(), cfg, opts)
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().String("strategy", "css", "Locate strategy of the selector: css or xpath")
	probeCmd.Flags().String("within", "", "CSS selector of a container to search in")
	probeCmd.Flags().Bool("headed", false, "Show the browser window")
	probeCmd.Flags().Bool("install", false, "Download the browser before probing")
	probeCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	probeCmd.Flags().Bool("hold", false, "Keep serving metrics after the probe until interrupted")
}

type probeOptions struct {
	url      string
	selector string
	strategy locate.Strategy
	within   string
	hold     bool
}

func probeOptionsFrom(cmd *cobra.Command, args []string) (probeOptions, error) {
	raw, _ := cmd.Flags().GetString("strategy")
	st, err := locate.Parse(raw)
	if err != nil {
		return probeOptions{}, err
	}
	if st == locate.Recursion {
		return probeOptions{}, fmt.Errorf("use --within to probe through a container")
	}
	within, _ := cmd.Flags().GetString("within")
	hold, _ := cmd.Flags().GetBool("hold")

	return probeOptions{
		url:      args[0],
		selector: args[1],
		strategy: st,
		within:   within,
		hold:     hold,
	}, nil
}

func applyProbeFlags(cmd *cobra.Command, cfg *config.Config) {
	if headed, _ := cmd.Flags().GetBool("headed"); headed {
		cfg.Browser.Headless = false
	}
	if install, _ := cmd.Flags().GetBool("install"); install {
		cfg.Browser.Install = true
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = addr
	}
}

// probePage describes the probed element, optionally inside a container.
func probePage(opts probeOptions) (*pageobject.Page, pageobject.NodeID, error) {
	page := pageobject.NewPage("probe")
	container := pageobject.RootID
	if opts.within != "" {
		id, err := page.AddSection(pageobject.RootID, "container", pageobject.Static(opts.within), locate.CSS)
		if err != nil {
			return nil, 0, err
		}
		container = id
	}
	if _, err := page.AddElement(container, "target", pageobject.Static(opts.selector), opts.strategy); err != nil {
		return nil, 0, err
	}
	return page, container, nil
}

func runProbe(ctx context.Context, out io.Writer, cfg *config.Config, opts probeOptions) error {
	h, err := harness.New(cfg)
	if err != nil {
		return err
	}
	defer h.Close()

	metricsDone := make(chan error, 1)
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	go func() { metricsDone <- h.ServeMetrics(metricsCtx) }()

	if err := h.Start(); err != nil {
		return err
	}

	page, container, err := probePage(opts)
	if err != nil {
		return err
	}
	root, err := h.Page(page)
	if err != nil {
		return err
	}
	target := root
	if container != pageobject.RootID {
		if target, err = h.Section(root, "container"); err != nil {
			return err
		}
	}

	text, exp, err := probe(target, opts.url)
	if err != nil {
		return err
	}
	if err := h.Run(ctx); err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	fmt.Fprintf(out, "url:     %s\n", opts.url)
	fmt.Fprintf(out, "target:  %s\n", describeProbe(opts))
	fmt.Fprintf(out, "visible: %t\n", exp.Passed())
	fmt.Fprintf(out, "text:    %q\n", *text)
	if n := h.Session().Errors().Count(); n > 0 {
		fmt.Fprintf(out, "errors:  %d\n", n)
	}

	if opts.hold && cfg.Metrics.Enabled {
		fmt.Fprintf(out, "serving metrics on %s, press Ctrl+C to stop\n", cfg.Metrics.Address)
		<-ctx.Done()
	}
	stopMetrics()
	return <-metricsDone
}

// probe enqueues navigation, a wait, a visibility expectation and a text
// read. The returned pointers are filled in when the queue runs.
func probe(target *command.Context, url string) (*string, *commands.Expectation, error) {
	ref := pageobject.NewRef("target")

	if _, err := target.Call("url", url); err != nil {
		return nil, nil, err
	}
	if _, err := target.Call("waitForElementPresent", ref); err != nil {
		return nil, nil, err
	}
	res, err := target.Expect("visible", ref)
	if err != nil {
		return nil, nil, err
	}
	exp, ok := res.(*commands.Expectation)
	if !ok {
		return nil, nil, fmt.Errorf("expect.visible returned %T", res)
	}

	text := new(string)
	_, err = target.Call("getText", ref, driver.Callback(func(_ *driver.Session, r driver.Result) {
		if s, ok := r.Value.(string); ok {
			*text = s
		}
	}))
	if err != nil {
		return nil, nil, err
	}
	return text, exp, nil
}

func describeProbe(opts probeOptions) string {
	if opts.within == "" {
		return fmt.Sprintf("%s(%s)", opts.strategy, opts.selector)
	}
	return fmt.Sprintf("%s(%s) > %s(%s)", locate.CSS, opts.within, opts.strategy, opts.selector)
}
