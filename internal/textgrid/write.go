// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package textgrid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write serialises tg in Praat's long text format.
func Write(w io.Writer, tg *TextGrid) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "File type = \"ooTextFile\"\n")
	fmt.Fprintf(bw, "Object class = \"TextGrid\"\n\n")
	fmt.Fprintf(bw, "xmin = %s \n", num(tg.XMin))
	fmt.Fprintf(bw, "xmax = %s \n", num(tg.XMax))

	if len(tg.Tiers) == 0 {
		fmt.Fprintf(bw, "tiers? <absent> \n")
		return bw.Flush()
	}

	fmt.Fprintf(bw, "tiers? <exists> \n")
	fmt.Fprintf(bw, "size = %d \n", len(tg.Tiers))
	fmt.Fprintf(bw, "item []: \n")

	for i, t := range tg.Tiers {
		fmt.Fprintf(bw, "    item [%d]:\n", i+1)
		fmt.Fprintf(bw, "        class = %s \n", quote(t.Kind.className()))
		fmt.Fprintf(bw, "        name = %s \n", quote(t.Name))
		fmt.Fprintf(bw, "        xmin = %s \n", num(t.XMin))
		fmt.Fprintf(bw, "        xmax = %s \n", num(t.XMax))

		if t.Kind == PointTier {
			fmt.Fprintf(bw, "        points: size = %d \n", len(t.Points))
			for j, pt := range t.Points {
				fmt.Fprintf(bw, "        points [%d]:\n", j+1)
				fmt.Fprintf(bw, "            number = %s \n", num(pt.Time))
				fmt.Fprintf(bw, "            mark = %s \n", quote(pt.Mark))
			}
			continue
		}

		fmt.Fprintf(bw, "        intervals: size = %d \n", len(t.Intervals))
		for j, iv := range t.Intervals {
			fmt.Fprintf(bw, "        intervals [%d]:\n", j+1)
			fmt.Fprintf(bw, "            xmin = %s \n", num(iv.XMin))
			fmt.Fprintf(bw, "            xmax = %s \n", num(iv.XMax))
			fmt.Fprintf(bw, "            text = %s \n", quote(iv.Text))
		}
	}

	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quote doubles embedded quotes the way Praat does.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
