package operator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/hydr0-downloader/internal/model"
)

const promptText = `Which should be downloaded? Enter the respective number.
Pick multiple tracks separated by whitespace, like this: 4 12 15
Enter 'n' to download nothing: `

// Prompt is a line based Operator.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading answers from r and writing to w.
func NewPrompt(r io.Reader, w io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(r), out: w}
}

// Select prints the candidates and asks until the answer is valid. End of
// input counts as a skip.
func (p *Prompt) Select(ctx context.Context, query string, candidates []model.Track) (Selection, error) {
	fmt.Fprint(p.out, "\n"+renderCandidates(query, candidates))

	for {
		if err := ctx.Err(); err != nil {
			return Selection{}, err
		}

		fmt.Fprint(p.out, "\n"+promptText)
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Selection{}, fmt.Errorf("read answer: %w", err)
		}
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			return Selection{Skip: true}, nil
		}

		sel, parseErr := ParseSelection(line, len(candidates))
		if parseErr == nil {
			return sel, nil
		}
		fmt.Fprintln(p.out, errorStyle.Render(parseErr.Error()))
		if errors.Is(err, io.EOF) {
			return Selection{Skip: true}, nil
		}
	}
}
