package view_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/sakila/sakilatest"
	"github.com/s0up4200/filmdesk/view"
)

const (
	ttl     = 200 * time.Millisecond
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func testSettings() view.Settings {
	s := view.DefaultSettings()
	s.MessageTTL = ttl
	s.RedirectDelay = ttl
	return s
}

func setup(t *testing.T) (*sakilatest.Server, *sakila.Client) {
	t.Helper()
	srv := sakilatest.NewServer()
	t.Cleanup(srv.Close)

	client, err := sakila.NewClient(srv.APIURL(), zerolog.Nop())
	require.NoError(t, err)
	return srv, client
}

func ids[T any](rows []T, id func(T) int) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func customerIDs(rows []sakila.Customer) []int {
	return ids(rows, func(c sakila.Customer) int { return c.ID })
}

func idRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

type recorder struct {
	routes chan string
}

func newRecorder() *recorder {
	return &recorder{routes: make(chan string, 4)}
}

func (r *recorder) Navigate(route string) {
	r.routes <- route
}

type answer bool

func (a answer) Confirm(string) bool {
	return bool(a)
}
