package vtest

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"strconv"
	"strings"

	"github.com/vango-dev/vangotest/internal/errors"
	"github.com/vango-dev/vangotest/pkg/archive"
)

// UpdateGoldenEnv names the environment variable that makes MatchGolden
// overwrite stored snapshots.
const UpdateGoldenEnv = "VANGOTEST_UPDATE"

// GoldenKey returns the archive key a golden snapshot is stored under.
func GoldenKey(name string) string {
	return "golden/" + name + ".json"
}

// MatchGolden compares the description of e with the snapshot stored
// under name. A missing snapshot is written, as is every snapshot when
// VANGOTEST_UPDATE=1.
func MatchGolden(t TB, store archive.Store, name string, e *Element) {
	t.Helper()
	ctx := context.Background()

	got, err := DescribeJSON(e)
	if err != nil {
		fail(t, errors.New(errors.CodeArchiveFailure).WithDetailf("describe %s", e).Wrap(err))
		return
	}
	got = append(got, '\n')
	key := GoldenKey(name)

	want, err := store.Get(ctx, key)
	switch {
	case stderrors.Is(err, archive.ErrNotFound) || os.Getenv(UpdateGoldenEnv) == "1":
		if err := store.Put(ctx, key, got); err != nil {
			fail(t, errors.New(errors.CodeArchiveFailure).WithDetailf("write %s", key).Wrap(err))
		}
		return
	case err != nil:
		fail(t, errors.New(errors.CodeArchiveFailure).WithDetailf("read %s", key).Wrap(err))
		return
	}

	if !bytes.Equal(want, got) {
		fail(t, errors.New(errors.CodeGoldenMismatch).WithDetail(firstDiff(string(want), string(got))))
	}
}

// firstDiff describes the first line where want and got differ.
func firstDiff(want, got string) string {
	wl := strings.Split(want, "\n")
	gl := strings.Split(got, "\n")
	for i := 0; i < len(wl) || i < len(gl); i++ {
		var w, g string
		if i < len(wl) {
			w = wl[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if w != g {
			return "line " + strconv.Itoa(i+1) + ":\n  want: " + strings.TrimSpace(w) + "\n  got:  " + strings.TrimSpace(g)
		}
	}
	return "snapshots differ"
}
