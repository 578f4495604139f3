package runtime

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"party-planner/ai"
	"party-planner/contract"
	"party-planner/domain"
	apperrors "party-planner/errors"
	"party-planner/internal/ui"
	"party-planner/repositories"
	"party-planner/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	contacts []domain.Contact
	// failAfter caps successful fetches; 0 means never fail.
	failAfter int
	fetches   int
}

func (s *scriptedSource) Fetch(context.Context) ([]domain.Contact, error) {
	if s.failAfter > 0 && s.fetches >= s.failAfter {
		return nil, apperrors.ErrSourceUnavailable
	}
	s.fetches++
	return s.contacts, nil
}

type recordingTransport struct {
	delivered map[string]string
	failing   map[string]bool
}

func (r *recordingTransport) Send(_ context.Context, handle, text string) error {
	if r.failing[handle] {
		return fmt.Errorf("%w: buddy unreachable", apperrors.ErrTransportFailure)
	}
	r.delivered[handle] = text
	return nil
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{delivered: map[string]string{}, failing: map[string]bool{}}
}

func newTestApp(t *testing.T, source contract.ContactSource, transport contract.Transport, drafter *ai.Drafter, script string) (*App, *bytes.Buffer, *services.PlannerService) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	lists, err := repositories.NewListStore(t.TempDir(), log)
	require.NoError(t, err)
	service := services.NewPlannerService(log, repositories.NewContactCache(db, log), lists, source)

	var out bytes.Buffer
	console := ui.NewConsole(strings.NewReader(script), &out)
	return NewApp(log, console, service, transport, drafter), &out, service
}

func Test_App_Create_Build_And_Send(t *testing.T) {
	req := require.New(t)
	source := &scriptedSource{contacts: []domain.Contact{
		{Name: "Amy Adams", Handle: "+1555"},
		{Name: "Bo Diddley", Handle: "+1556"},
	}}
	transport := newRecordingTransport()

	script := strings.Join([]string{
		"Birthday Bash", // list name
		"amy",           // search
		"1",             // pick Amy
		"done",          // finish the build
		"6",             // send the texts
		"Hey {name}!",   // template
		"s",             // confirm Amy
		"0",             // exit
	}, "\n") + "\n"

	app, out, service := newTestApp(t, source, transport, nil, script)
	req.NoError(app.Run(context.Background()))

	req.Equal("Hey Amy!", transport.delivered["+1555"])
	req.NotContains(transport.delivered, "+1556")
	req.Contains(out.String(), "Done! Sent: 1")

	saved, err := service.LoadList("Birthday Bash")
	req.NoError(err)
	req.Equal([]domain.Contact{{Name: "Amy Adams", Handle: "+1555"}}, saved.Members)
}

func Test_App_Quit_Leaves_Rest_Not_Reached_And_Restarts_From_First(t *testing.T) {
	req := require.New(t)
	source := &scriptedSource{contacts: []domain.Contact{
		{Name: "Amy Adams", Handle: "+1555"},
		{Name: "Bo Adams", Handle: "+1556"},
	}}
	transport := newRecordingTransport()

	script := strings.Join([]string{
		"Bash",        // list name
		"adams",       // search
		"all",         // pick both
		"done",        // finish the build
		"6",           // send
		"1",           // default template
		"",            // Enter confirms Amy
		"q",           // quit before Bo
		"6",           // send again
		"Hey {name}!", // template
		"q",           // the fresh session starts back at Amy
		"0",           // exit
	}, "\n") + "\n"

	app, out, _ := newTestApp(t, source, transport, nil, script)
	req.NoError(app.Run(context.Background()))

	req.Contains(transport.delivered, "+1555")
	req.NotContains(transport.delivered, "+1556")
	req.Contains(out.String(), "Not reached: 1")
	// The second session renders Amy at position 1/2 again.
	req.Contains(out.String(), "--- 1/2: Amy Adams ---")
}

func Test_App_Sync_Failure_Keeps_Searching_With_Old_Cache(t *testing.T) {
	req := require.New(t)
	// The source answers the initial fetch, then goes down.
	source := &scriptedSource{
		contacts:  []domain.Contact{{Name: "Amy Adams", Handle: "+1555"}},
		failAfter: 1,
	}

	script := strings.Join([]string{
		"Bash", // list name
		"sync", // fails: the source is now down
		"amy",  // the old snapshot still answers
		"1",
		"done",
		"0",
	}, "\n") + "\n"

	app, out, service := newTestApp(t, source, newRecordingTransport(), nil, script)
	req.NoError(app.Run(context.Background()))

	req.Contains(out.String(), "contact source unavailable")
	saved, err := service.LoadList("Bash")
	req.NoError(err)
	req.Equal(1, saved.Len())
}

func Test_App_AI_Mode_Drafts_Once_And_Keeps_Edits(t *testing.T) {
	req := require.New(t)
	drafts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		drafts++
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"You're invited to the BBQ!"}]}}]}`)
	}))
	defer server.Close()

	source := &scriptedSource{contacts: []domain.Contact{
		{Name: "Amy Adams", Handle: "+1555"},
		{Name: "Bo Adams", Handle: "+1556"},
	}}
	transport := newRecordingTransport()

	script := strings.Join([]string{
		"Bash",           // list name
		"adams",          // search
		"all",            // pick both
		"done",           // finish the build
		"6",              // send
		"ai",             // drafted invitations
		"BBQ",            // event
		"",               // default vibe
		"e",              // edit Amy's draft
		"Custom for Amy", // the manual edit
		"",               // Enter sends Amy's edited message
		"",               // Enter sends Bo's draft
		"0",              // exit
	}, "\n") + "\n"

	app, _, _ := newTestApp(t, source, transport, ai.NewDrafterAt("test-key", server.URL), script)
	req.NoError(app.Run(context.Background()))

	// The manual edit survives the re-prompt instead of being redrafted.
	req.Equal("Custom for Amy", transport.delivered["+1555"])
	req.Equal("You're invited to the BBQ!", transport.delivered["+1556"])
	// One API call per member, not per prompt-loop iteration.
	req.Equal(2, drafts)
}
