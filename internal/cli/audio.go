package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/tts"
)

// AudioOptions holds flags for the audio command.
type AudioOptions struct {
	*RootOptions
	SetID int
	File  string
	Out   string

	// Fetcher overrides the downloader (for testing).
	Fetcher *tts.Fetcher
}

// NewAudioCommand creates the audio command.
func NewAudioCommand(rootOpts *RootOptions) *cobra.Command {
	return newAudioCommand(&AudioOptions{RootOptions: rootOpts})
}

func newAudioCommand(opts *AudioOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Download pronunciation audio",
		Long: `Download one mp3 per phrase from the speech endpoint (TTS_BASE_URL).

Phrases come from a set (--set) or a text file with one phrase per line
(--file). Downloads run one at a time with a short pause between them.

Example:
  hanzimatch audio --set 2 --out ./audio
  hanzimatch audio --file words.txt --out ./audio`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := runAudio(cmd, opts)
			fmt.Fprintf(cmd.OutOrStdout(), "%d files written to %s\n", len(written), opts.Out)
			return err
		},
	}

	cmd.Flags().IntVar(&opts.SetID, "set", 0, "phrase set id")
	cmd.Flags().StringVar(&opts.File, "file", "", "text file, one phrase per line")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "audio", "output directory")
	cmd.MarkFlagsMutuallyExclusive("set", "file")

	return cmd
}

func runAudio(cmd *cobra.Command, opts *AudioOptions) ([]string, error) {
	texts, err := audioTexts(opts)
	if err != nil {
		return nil, err
	}
	f := opts.Fetcher
	if f == nil {
		f = tts.NewFetcher()
	}
	log.Debug().Int("phrases", len(texts)).Str("base", f.BaseURL).Msg("fetching audio")
	return f.FetchAll(cmd.Context(), texts, opts.Out)
}

// audioTexts reads the phrases to download from --set or --file.
func audioTexts(opts *AudioOptions) ([]string, error) {
	switch {
	case opts.File != "":
		fh, err := os.Open(opts.File)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		var texts []string
		sc := bufio.NewScanner(fh)
		for sc.Scan() {
			if t := phrases.Normalize(sc.Text()); t != "" {
				texts = append(texts, t)
			}
		}
		return texts, sc.Err()
	case opts.SetID != 0:
		if err := phrases.Init(); err != nil {
			return nil, fmt.Errorf("load phrase library: %w", err)
		}
		set, err := phrases.Get(opts.SetID)
		if err != nil {
			return nil, err
		}
		return set.Texts(), nil
	default:
		return nil, errors.New("one of --set or --file is required")
	}
}
