package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ivlev/annokit/internal/annotation"
	"github.com/ivlev/annokit/internal/container"
	"github.com/ivlev/annokit/internal/media"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var checkMedia bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the records of a label file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.open(args[0])
			if err != nil {
				return err
			}
			sess, err := c.Load(args[0])
			if err != nil {
				return err
			}

			headers := []string{"#", "File", "Type", "Labels", "Path"}
			if checkMedia {
				headers = append(headers, "Media")
			}

			failed := 0
			paths := sess.MediaPaths()
			rows := make([][]string, 0, len(sess.Annotations))
			for i, rec := range sess.Annotations {
				row := []string{
					strconv.Itoa(i + 1),
					rec.Filename,
					rec.Type,
					strconv.Itoa(len(rec.Annotations)),
					paths[i],
				}
				if checkMedia {
					status, err := ctx.probeMedia(cmd, c, rec, paths[i])
					if err != nil {
						failed++
						status = "error: " + err.Error()
					}
					row = append(row, status)
				}
				rows = append(rows, row)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s): %d records, %d labels\n",
				sess.File, c.Format().Name(), len(sess.Annotations), sess.Annotations.LabelCount())
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(headers, rows, 1, 4))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d media references could not be read", failed, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkMedia, "check-media", false, "Check every referenced image, PDF and video")
	return cmd
}

// probeMedia reads as little of the referenced file as it takes to prove it
// is usable: the header of still images, the page count of PDFs and the
// frame count of videos.
func (cc *commandContext) probeMedia(cmd *cobra.Command, c *container.Container, rec annotation.Record, path string) (string, error) {
	switch {
	case rec.Type == annotation.TypeVideo:
		if !cc.prober.Available() {
			return "", fmt.Errorf("%s not found", cc.prober.Binary)
		}
		n, err := cc.prober.FrameCount(cmd.Context(), path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d frames", n), nil
	case media.IsPDF(path):
		n, err := cc.media.PDF.PageCount(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d pages", n), nil
	case media.IsImage(path):
		w, h, err := cc.media.Images.Dimensions(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%dx%d", w, h), nil
	default:
		img, err := c.LoadImage(rec.Filename)
		if err != nil {
			return "", err
		}
		b := img.Bounds()
		return fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), nil
	}
}
