// Package batch checks many signature and value pairs at once.
//
// A batch file has one check per line, a type signature and a value
// literal separated by a tab. Blank lines and lines starting with #
// are ignored.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/creachadair/mds/slice"
	"github.com/creachadair/taskgroup"
	"github.com/danderson/dbusarg"
	"github.com/danderson/dbusarg/wire"
	"github.com/rs/zerolog"
)

// A Job is one line of a batch file.
type Job struct {
	Line    int // 1-based
	Sig     string
	Literal string
}

// A Result is the outcome of a Job. Exactly one of Arg and Err is
// set, unless the job's signature is empty.
type Result struct {
	Job
	Arg wire.Arg
	Err error
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%d: FAIL %v", r.Line, r.Err)
	}
	return fmt.Sprintf("%d: OK %s %s", r.Line, r.Sig, r.Literal)
}

type line struct {
	n    int
	text string
}

func (l line) isCheck() bool {
	t := strings.TrimSpace(l.text)
	return t != "" && !strings.HasPrefix(t, "#")
}

// Read reads the jobs of a batch file.
func Read(r io.Reader) ([]Job, error) {
	var lines []line
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		lines = append(lines, line{n, sc.Text()})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}

	var ret []Job
	for l := range slice.Select(lines, line.isCheck) {
		sig, lit, ok := strings.Cut(l.text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab between signature and value", l.n)
		}
		ret = append(ret, Job{
			Line:    l.n,
			Sig:     strings.TrimSpace(sig),
			Literal: strings.TrimSpace(lit),
		})
	}
	return ret, nil
}

// Run runs jobs concurrently, and returns their results in the same
// order as jobs.
func Run(logger zerolog.Logger, jobs []Job) []Result {
	ret := make([]Result, len(jobs))
	g := taskgroup.New(nil)
	for i, job := range jobs {
		g.Go(func() error {
			arg, err := dbusarg.Marshal(job.Sig, job.Literal)
			ret[i] = Result{job, arg, err}
			if err != nil {
				logger.Debug().Int("line", job.Line).Err(err).Msg("check failed")
			} else {
				logger.Debug().Int("line", job.Line).Str("sig", job.Sig).Msg("check passed")
			}
			return nil
		})
	}
	g.Wait()
	return ret
}

// Failed returns the results that have an error.
func Failed(rs []Result) []Result {
	return slices.Collect(slice.Select(rs, func(r Result) bool { return r.Err != nil }))
}
