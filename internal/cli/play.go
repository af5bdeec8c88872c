package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/match"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/render"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	SetID int
	Slots int
	Seed  uint64
	Color bool
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a set in the terminal",
		Long: `Play a phrase set in the terminal.

Each input line is a tile id from the tray. "reset" deals the set again,
"board" reprints the line and tray, "quit" leaves.

Example:
  hanzimatch play --set 2 --slots 6
  hanzimatch play --set 1 --seed 42 --color`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var engOpts []match.Option
			if cmd.Flags().Changed("seed") {
				engOpts = append(engOpts, match.WithSeed(opts.Seed))
			}
			return runPlay(opts, cmd.InOrStdin(), cmd.OutOrStdout(), engOpts...)
		},
	}

	cmd.Flags().IntVar(&opts.SetID, "set", 1, "phrase set id")
	cmd.Flags().IntVar(&opts.Slots, "slots", 6, "number of answer slots")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "shuffle seed (random when unset)")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "colour tiles by phrase")

	return cmd
}

func runPlay(opts *PlayOptions, in io.Reader, out io.Writer, engOpts ...match.Option) error {
	if err := phrases.Init(); err != nil {
		return fmt.Errorf("load phrase library: %w", err)
	}
	set, err := phrases.Get(opts.SetID)
	if err != nil {
		return err
	}
	dict, err := set.Dictionary()
	if err != nil {
		return err
	}
	eng, err := match.New(dict, opts.Slots, engOpts...)
	if err != nil {
		return err
	}

	view := render.NewText(out, eng.Snapshot().Tiles)
	view.Color = opts.Color

	fmt.Fprintf(out, "set    %d %s (%d phrases)\n", set.ID, set.Name, dict.Len())
	view.Board(eng.Snapshot())

	sc := bufio.NewScanner(in)
	for !eng.Complete() && sc.Scan() {
		cmd := strings.TrimSpace(sc.Text())
		switch cmd {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "reset":
			eng.Reset()
			view.Board(eng.Snapshot())
			continue
		case "board":
			view.Board(eng.Snapshot())
			continue
		}

		id, err := strconv.Atoi(cmd)
		if err != nil {
			fmt.Fprintf(out, "error  %q is not a tile id\n", cmd)
			continue
		}
		_, events, err := eng.PlaceTile(id)
		switch {
		case errors.Is(err, match.ErrNoAvailableSlot):
			fmt.Fprintln(out, "error  answer line is full, type reset")
			continue
		case errors.Is(err, match.ErrInvalidReference):
			fmt.Fprintf(out, "error  no tile %d in the tray\n", id)
			continue
		case err != nil:
			return err
		}
		match.Dispatch(view, events)
		if !eng.Complete() {
			view.Board(eng.Snapshot())
		}
	}
	return sc.Err()
}
