package places

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

var errOutputTooLarge = errors.New("scraper output exceeded size limit")

// cappedBuffer rejects writes past its limit so a misbehaving scraper
// cannot balloon memory. The write error aborts the copy and surfaces
// through cmd.Wait.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int64
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len())+int64(len(p)) > b.limit {
		return 0, errOutputTooLarge
	}
	return b.buf.Write(p)
}

// execRunner runs the scraper via os/exec with the context's deadline.
type execRunner struct {
	command   string
	script    string
	maxOutput int64
}

func (r *execRunner) Run(ctx context.Context, args []string) ([]byte, string, error) {
	cmdArgs := append([]string{r.script}, args...)
	cmd := exec.CommandContext(ctx, r.command, cmdArgs...)

	// Both streams are bounded; a chatty scraper can balloon stderr just as
	// easily as stdout.
	stdout := &cappedBuffer{limit: r.maxOutput}
	stderr := &cappedBuffer{limit: r.maxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	return stdout.buf.Bytes(), stderr.buf.String(), err
}
