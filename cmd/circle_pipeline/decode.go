package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"circle_pipeline/internal/gateway/pipeline"

	"github.com/spf13/cobra"
)

func NewDecodeCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode captured pipeline frames, one JSON frame per line",
		Long:  "Reads frames from the given file or stdin and prints the event kind and the decoded payload for each line.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			in := io.Reader(os.Stdin)
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return decodeFrames(in, c.OutOrStdout(), c.ErrOrStderr(), strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first frame that fails to decode")

	return cmd
}

// decodeFrames 逐行解码，空行跳过
func decodeFrames(in io.Reader, out, errOut io.Writer, strict bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line, failed := 0, 0
	for scanner.Scan() {
		line++
		frame := scanner.Bytes()
		if len(frame) == 0 {
			continue
		}
		ev, err := pipeline.Decode(frame)
		if err != nil {
			failed++
			if strict {
				return fmt.Errorf("line %d: %w", line, err)
			}
			fmt.Fprintf(errOut, "line %d: %v\n", line, err)
			continue
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		fmt.Fprintf(out, "%s\t%s\n", ev.Kind(), payload)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(errOut, "%d of %d frames failed to decode\n", failed, line)
	}
	return nil
}
