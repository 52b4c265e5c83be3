// Command xmage-maintenance is a collection of maintenance tools for
// XMage: implementation checks against the live checkout, checklist
// generation from spoiler galleries and the card database, and
// implemented-card diffs across repository history.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"xmage-maintenance/internal/carddb"
	"xmage-maintenance/internal/clip"
	"xmage-maintenance/internal/config"
	"xmage-maintenance/internal/delta"
	"xmage-maintenance/internal/extract"
	"xmage-maintenance/internal/gitrepo"
	"xmage-maintenance/internal/progress"
	"xmage-maintenance/internal/report"
	"xmage-maintenance/internal/sortutil"
	"xmage-maintenance/internal/spoiler"
)

var (
	// Global flags
	pullFirst bool
	verbose   bool
	useStdout bool
	patchOnly bool

	cfg    config.Config
	logger *zap.Logger
)

// errCardMissing turns into exit status 1 without a message; the
// verbose result line already tells the story.
var errCardMissing = errors.New("card not implemented")

var rootCmd = &cobra.Command{
	Use:   "xmage-maintenance",
	Short: "Collection of maintenance tools for XMage",
	Long: `xmage-maintenance inspects an XMage checkout and the public card
database: which cards are implemented, what a new set still needs, and
what changed between two points of the repository's history.

The checkout location comes from XMAGE_MASTER, optionally through a
.env file. Commands that produce text copy it to the clipboard unless
--stdout is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = config.Load()
		if pullFirst {
			// A failed pull is reported but does not stop maintenance.
			repo := gitrepo.Open(cfg.MasterPath, logger)
			if err := repo.Pull(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var fullSpoilerCmd = &cobra.Command{
	Use:   "full-spoiler <set-code> <spoiler-url>",
	Short: "Build reprint and new-card checklists from a spoiler gallery",
	Long: `Downloads a full-spoiler gallery page, checks every spoiled card
against the card database and the checkout, and produces two Markdown
checklists: reprints and new cards. Without --stdout the lists are
copied to the clipboard one after the other, with a pause in between.`,
	Args: cobra.ExactArgs(2),
	RunE: runFullSpoiler,
}

var implementedCmd = &cobra.Command{
	Use:   "implemented <card-name> [<set-code>]",
	Short: "Check whether a card is implemented (exit status 1 when not)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runImplemented,
}

var implementedListCmd = &cobra.Command{
	Use:   "implemented-list",
	Short: "Print the names of all implemented cards",
	Args:  cobra.NoArgs,
	RunE:  runImplementedList,
}

var implementedSinceCmd = &cobra.Command{
	Use:   "implemented-since <revision>",
	Short: "List cards implemented since a revision, grouped by set",
	Long: `Compares the working tree against a baseline revision and renders
one Markdown bullet per set of newly implemented cards. The checkout is
switched to the baseline for the comparison and restored afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runImplementedSince,
}

var markdownLinkCmd = &cobra.Command{
	Use:   "markdown-link <card-name> [<set-code>]",
	Short: "Print a Markdown link for a card",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMarkdownLink,
}

var oracleUpdateCmd = &cobra.Command{
	Use:   "oracle-update <set-code>",
	Short: "Generate the oracle-update posting for a set",
	Long: `Renders the oracle-update document for one set: rules and Oracle
sections to fill in by hand, plus generated reprint and new-card
checklists. With --patch only the card checklists are produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runOracleUpdate,
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Count card source files in the working tree",
	Args:  cobra.NoArgs,
	RunE:  runTotal,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&pullFirst, "pull", "p", false, "Pull master before performing maintenance")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print progress updates while performing maintenance")
	rootCmd.PersistentFlags().BoolVar(&useStdout, "stdout", false, "Print to stdout instead of copying to clipboard")

	oracleUpdateCmd.Flags().BoolVar(&patchOnly, "patch", false, "Only produce the cards section")

	rootCmd.AddCommand(fullSpoilerCmd)
	rootCmd.AddCommand(implementedCmd)
	rootCmd.AddCommand(implementedListCmd)
	rootCmd.AddCommand(implementedSinceCmd)
	rootCmd.AddCommand(markdownLinkCmd)
	rootCmd.AddCommand(oracleUpdateCmd)
	rootCmd.AddCommand(totalCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errCardMissing) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// toolbox bundles the handles every subcommand needs.
type toolbox struct {
	repo  *gitrepo.Repo
	ex    *extract.Extractor
	meter *progress.Meter
	out   *clip.Copier
}

func newToolbox(cmd *cobra.Command) *toolbox {
	repo := gitrepo.Open(cfg.MasterPath, logger)
	return &toolbox{
		repo:  repo,
		ex:    extract.New(repo, repo, logger),
		meter: progress.New(cmd.OutOrStdout(), verbose),
		out:   clip.New(cmd.OutOrStdout(), useStdout),
	}
}

func runFullSpoiler(cmd *cobra.Command, args []string) error {
	setCode, spoilerURL := args[0], args[1]
	ctx := cmd.Context()
	tb := newToolbox(cmd)

	tb.meter.Start("downloading MTG JSON")
	db, err := carddb.FromURL(ctx, carddb.AllSetsURL)
	if err != nil {
		return err
	}
	tb.meter.Done()

	tb.meter.Start("parsing full spoiler")
	body, err := fetchPage(ctx, spoilerURL)
	if err != nil {
		return err
	}
	tb.meter.Full()
	images, err := spoiler.Images(body)
	body.Close()
	if err != nil {
		return err
	}
	tb.meter.Done()

	names := sortutil.Keys(images)
	var reprints, newCards []string
	for i, name := range names {
		tb.meter.TickMsg(i, len(names), "checking for implemented cards")
		impl, err := tb.ex.Implemented(ctx, name, setCode)
		if err != nil {
			return err
		}
		line := report.ChecklistItem(impl, fmt.Sprintf("[%s](%s)", name, images[name]))
		if db.KnownName(name) {
			reprints = append(reprints, line)
		} else {
			newCards = append(newCards, line)
		}
	}
	tb.meter.Done()

	if tb.out.Stdout() {
		progress.Notef(cmd.OutOrStdout(), "reprints")
	}
	if err := tb.out.Copy(strings.Join(reprints, "\n")); err != nil {
		return err
	}
	if tb.out.Stdout() {
		progress.Notef(cmd.OutOrStdout(), "new cards")
	} else if err := pause(cmd, "reprints copied to clipboard, press return to copy new cards"); err != nil {
		return err
	}
	if err := tb.out.Copy(strings.Join(newCards, "\n")); err != nil {
		return err
	}
	if !tb.out.Stdout() {
		progress.Notef(cmd.OutOrStdout(), "new cards copied to clipboard")
	}
	return nil
}

func runImplemented(cmd *cobra.Command, args []string) error {
	name := args[0]
	setCode := ""
	if len(args) == 2 {
		setCode = args[1]
	}
	tb := newToolbox(cmd)

	impl, err := tb.ex.Implemented(cmd.Context(), name, setCode)
	if err != nil {
		return err
	}
	if verbose {
		mark := "FAIL"
		if impl {
			mark = " ok "
		}
		prefix := ""
		if setCode != "" {
			prefix = "(" + setCode + ") "
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s%s\n", mark, prefix, name)
	}
	if !impl {
		return errCardMissing
	}
	return nil
}

func runImplementedList(cmd *cobra.Command, args []string) error {
	tb := newToolbox(cmd)
	// The list itself goes to stdout, so the meter moves to stderr to
	// keep piped output clean.
	meter := progress.New(cmd.ErrOrStderr(), verbose)

	meter.Start("determining current implemented cards")
	recs, err := tb.ex.Iter(cmd.Context(), gitrepo.WorkingTree)
	if err != nil {
		return err
	}
	meter.Done()

	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		seen[rec.CardName] = struct{}{}
	}
	for _, name := range sortutil.Keys(seen) {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runImplementedSince(cmd *cobra.Command, args []string) error {
	rev := args[0]
	ctx := cmd.Context()
	tb := newToolbox(cmd)

	tb.meter.Start("downloading MTG JSON")
	db, err := carddb.FromURL(ctx, carddb.AllSetsURL)
	if err != nil {
		return err
	}
	tb.meter.Done()

	added, err := delta.ImplementedSince(ctx, tb.repo, tb.ex, rev, tb.meter)
	if err != nil {
		return err
	}

	tb.meter.Start("formatting")
	lines := report.SinceList(added, db)
	tb.meter.Done()

	if len(lines) > 0 {
		if err := tb.out.Copy(strings.Join(lines, "\n")); err != nil {
			return err
		}
		if verbose && !tb.out.Stdout() {
			progress.Notef(cmd.OutOrStdout(), "new cards copied to clipboard")
		}
	} else if verbose {
		progress.Notef(cmd.OutOrStdout(), "no new cards")
	}
	return nil
}

func runMarkdownLink(cmd *cobra.Command, args []string) error {
	name := args[0]
	setCode := ""
	if len(args) == 2 {
		setCode = args[1]
	}
	tb := newToolbox(cmd)

	tb.meter.Start("downloading MTG JSON")
	db, err := carddb.FromURL(cmd.Context(), carddb.AllSetsURL)
	if err != nil {
		return err
	}
	tb.meter.Done()

	fmt.Fprintln(cmd.OutOrStdout(), report.CardLink(name, setCode, db))
	return nil
}

func runOracleUpdate(cmd *cobra.Command, args []string) error {
	setCode := args[0]
	ctx := cmd.Context()
	tb := newToolbox(cmd)

	tb.meter.Start("downloading MTG JSON")
	db, err := carddb.FromURL(ctx, carddb.AllSetsXZipURL)
	if err != nil {
		return err
	}
	tb.meter.Done()

	set, ok := db.Set(setCode)
	if !ok {
		return fmt.Errorf("unknown set code %q", setCode)
	}

	names := set.CardNames()
	var reprints, newCards []string
	for i, name := range names {
		tb.meter.TickMsg(i, len(names), "checking for implemented cards")
		impl, err := tb.ex.Implemented(ctx, name, setCode)
		if err != nil {
			return err
		}
		card, _ := set.Card(name)
		line := report.ChecklistItem(impl, report.CardLink(name, setCode, db))
		if card.IsReprint() {
			reprints = append(reprints, line)
		} else {
			newCards = append(newCards, line)
		}
	}
	tb.meter.Done()

	text, err := report.OracleUpdate{
		SetCode:  setCode,
		Patch:    patchOnly,
		Reprints: reprints,
		NewCards: newCards,
	}.Render()
	if err != nil {
		return err
	}
	if err := tb.out.Copy(text); err != nil {
		return err
	}
	if !tb.out.Stdout() {
		progress.Notef(cmd.OutOrStdout(), "text copied to clipboard")
	}
	return nil
}

func runTotal(cmd *cobra.Command, args []string) error {
	tb := newToolbox(cmd)
	unique, total, err := tb.ex.Totals(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d unique, %d total\n", unique, total)
	return nil
}

// fetchPage downloads a URL, failing on any non-OK status. The caller
// closes the returned body.
func fetchPage(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// pause prompts on the same line and waits for return. EOF counts as
// return so piped runs do not stall.
func pause(cmd *cobra.Command, msg string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "[ ** ] %s", msg)
	_, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
