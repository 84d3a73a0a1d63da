package questions

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/bloomgen/internal/llm"
)

var requestedRe = regexp.MustCompile(`Generate exactly (\d+) `)

// scripted answers each call with the next queued reply, or with n numbered
// questions when the queue is empty.
type scripted struct {
	replies   []string
	errs      map[int]error // by 0-based call index
	prompts   []string
	requested []int
}

func (s *scripted) Complete(ctx context.Context, prompt string, p llm.Params) (string, error) {
	idx := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	n := 0
	if m := requestedRe.FindStringSubmatch(prompt); m != nil {
		n, _ = strconv.Atoi(m[1])
		s.requested = append(s.requested, n)
	}
	if err := s.errs[idx]; err != nil {
		return "", err
	}
	if len(s.replies) > 0 {
		r := s.replies[0]
		s.replies = s.replies[1:]
		return r, nil
	}
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%d. Describe topic number %d in detail.", i+1, idx*100+i)
	}
	return strings.Join(lines, "\n"), nil
}
