package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"moranda/internal/domain"

	slackapi "github.com/slack-go/slack"
)

// fakeSlackAPI serves canned Web API responses and records the calls it saw
type fakeSlackAPI struct {
	mu      sync.Mutex
	calls   []string
	forms   map[string]map[string]string
	tokens  map[string]string
	replies map[string]string
}

func newFakeSlackAPI() *fakeSlackAPI {
	return &fakeSlackAPI{
		forms:  make(map[string]map[string]string),
		tokens: make(map[string]string),
		replies: map[string]string{
			"auth.test": `{"ok":true,"user_id":"UBOT","team_id":"T1"}`,
		},
	}
}

func (f *fakeSlackAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/")
	_ = r.ParseForm()

	f.mu.Lock()
	f.calls = append(f.calls, method)
	form := make(map[string]string)
	for k := range r.Form {
		form[k] = r.Form.Get(k)
	}
	key := method
	if method == "conversations.list" {
		key = method + "?" + form["types"]
	}
	if method == "conversations.members" {
		key = method + "?" + form["channel"]
	}
	f.forms[key] = form
	token := form["token"]
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	f.tokens[method] = token
	reply, ok := f.replies[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		reply = `{"ok":false,"error":"unknown_method"}`
	}
	_, _ = w.Write([]byte(reply))
}

func newTestAdapter(t *testing.T, api *fakeSlackAPI) *SlackClientAdapter {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	adapter, err := NewSlackClientAdapter(context.Background(), "xoxb-bot", slackapi.OptionAPIURL(server.URL+"/"))
	if err != nil {
		t.Fatalf("NewSlackClientAdapter failed: %v", err)
	}
	return adapter
}

func TestNewSlackClientAdapter_ReadsBotUser(t *testing.T) {
	adapter := newTestAdapter(t, newFakeSlackAPI())

	if adapter.BotUserID() != "UBOT" {
		t.Errorf("Expected bot user UBOT, got %s", adapter.BotUserID())
	}
}

func TestNewSlackClientAdapter_AuthFailure(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["auth.test"] = `{"ok":false,"error":"invalid_auth"}`
	server := httptest.NewServer(api)
	defer server.Close()

	_, err := NewSlackClientAdapter(context.Background(), "xoxb-bad", slackapi.OptionAPIURL(server.URL+"/"))
	if !errors.Is(err, domain.ErrPlatformCall) {
		t.Fatalf("Expected ErrPlatformCall, got %v", err)
	}
}

func TestListDirectMessageChannels(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["conversations.list?im"] = `{"ok":true,"channels":[{"id":"D1","is_im":true,"user":"U1"},{"id":"D2","is_im":true,"user":"U2"}],"response_metadata":{"next_cursor":""}}`
	adapter := newTestAdapter(t, api)

	ims, err := adapter.ListDirectMessageChannels(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ims) != 2 || ims[0].ID != "D1" || ims[0].User != "U1" || ims[1].User != "U2" {
		t.Errorf("Unexpected IM channels: %+v", ims)
	}
}

func TestListChannelsWithMembers(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["conversations.list?public_channel,private_channel"] = `{"ok":true,"channels":[{"id":"C1","is_channel":true,"is_member":true},{"id":"C2","is_channel":true,"is_member":false}],"response_metadata":{"next_cursor":""}}`
	adapter := newTestAdapter(t, api)

	channels, err := adapter.ListChannelsWithMembers(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("Expected 2 channels, got %d", len(channels))
	}
	if !channels[0].HasMember("UBOT") {
		t.Error("Expected bot to be a member of C1")
	}
	if channels[1].HasMember("UBOT") {
		t.Error("Expected bot not to be a member of C2")
	}
}

func TestListChannelsWithMembers_LargeWorkspaceUsesListingOnly(t *testing.T) {
	api := newFakeSlackAPI()
	var listing []string
	for i := 0; i < 50; i++ {
		listing = append(listing, fmt.Sprintf(`{"id":"C%d","is_channel":true,"is_member":%t}`, i, i%2 == 0))
	}
	api.replies["conversations.list?public_channel,private_channel"] = `{"ok":true,"channels":[` + strings.Join(listing, ",") + `],"response_metadata":{"next_cursor":""}}`
	api.replies["conversations.members?C49"] = `{"ok":false,"error":"ratelimited"}`
	adapter := newTestAdapter(t, api)

	channels, err := adapter.ListChannelsWithMembers(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(channels) != 50 {
		t.Fatalf("Expected 50 channels, got %d", len(channels))
	}
	if !channels[0].HasMember("UBOT") || channels[49].HasMember("UBOT") {
		t.Errorf("Unexpected membership: C0=%+v C49=%+v", channels[0], channels[49])
	}
	for _, call := range api.calls {
		if call == "conversations.members" {
			t.Fatal("Expected no conversations.members calls")
		}
	}
}

func TestListChannelsWithMembers_ListFailure(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["conversations.list?public_channel,private_channel"] = `{"ok":false,"error":"ratelimited"}`
	adapter := newTestAdapter(t, api)

	_, err := adapter.ListChannelsWithMembers(context.Background())
	if !errors.Is(err, domain.ErrPlatformCall) {
		t.Fatalf("Expected ErrPlatformCall, got %v", err)
	}
}

func TestPostMessage_WithSummaryCard(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["chat.postMessage"] = `{"ok":true,"channel":"C2","ts":"1700000000.000100"}`
	adapter := newTestAdapter(t, api)

	author := &domain.User{ID: "U1", Name: "alice", Img: "https://img/alice.png"}
	err := adapter.PostMessage(context.Background(), domain.PostMessageRequest{
		Channel:     "C2",
		Text:        `Here's an update of the "launch" Aside`,
		Attachments: []domain.SummaryCard{domain.NewSummaryCard("launch", "we shipped it", author)},
		AsUser:      true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	form := api.forms["chat.postMessage"]
	if form["channel"] != "C2" {
		t.Errorf("Expected channel C2, got %s", form["channel"])
	}
	if form["as_user"] != "true" {
		t.Errorf("Expected as_user true, got %q", form["as_user"])
	}
	var attachments []slackapi.Attachment
	if err := json.Unmarshal([]byte(form["attachments"]), &attachments); err != nil {
		t.Fatalf("attachments not JSON: %v", err)
	}
	if len(attachments) != 1 || attachments[0].Color != domain.SummaryColor || attachments[0].AuthorName != "@alice" {
		t.Errorf("Unexpected attachments: %+v", attachments)
	}
	if len(attachments[0].Fields) != 2 || attachments[0].Fields[1].Value != "we shipped it" {
		t.Errorf("Unexpected fields: %+v", attachments[0].Fields)
	}
}

func TestPostMessage_Failure(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["chat.postMessage"] = `{"ok":false,"error":"channel_not_found"}`
	adapter := newTestAdapter(t, api)

	err := adapter.PostMessage(context.Background(), domain.PostMessageRequest{Channel: "C404", Text: "hi"})
	if !errors.Is(err, domain.ErrPlatformCall) {
		t.Fatalf("Expected ErrPlatformCall, got %v", err)
	}
	if !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("Expected platform error in message, got %v", err)
	}
}

func TestArchiveChannel_UsesActingToken(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["conversations.archive"] = `{"ok":true}`
	adapter := newTestAdapter(t, api)

	if err := adapter.ArchiveChannel(context.Background(), "C1", "xoxp-owner"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if api.tokens["conversations.archive"] != "xoxp-owner" {
		t.Errorf("Expected archive with owner token, got %q", api.tokens["conversations.archive"])
	}
	if api.forms["conversations.archive"]["channel"] != "C1" {
		t.Errorf("Expected channel C1, got %+v", api.forms["conversations.archive"])
	}
}

func TestArchiveChannel_RequiresToken(t *testing.T) {
	adapter := newTestAdapter(t, newFakeSlackAPI())

	err := adapter.ArchiveChannel(context.Background(), "C1", "")
	if !errors.Is(err, domain.ErrPlatformCall) {
		t.Fatalf("Expected ErrPlatformCall, got %v", err)
	}
}

func TestFetchRoster(t *testing.T) {
	api := newFakeSlackAPI()
	api.replies["users.list"] = `{"ok":true,"members":[` +
		`{"id":"U1","name":"alice","deleted":false,"profile":{"image_24":"https://img/a24.png"}},` +
		`{"id":"U2","name":"bob","deleted":true,"profile":{"image_24":"https://img/b24.png"}}` +
		`],"response_metadata":{"next_cursor":""}}`
	adapter := newTestAdapter(t, api)

	roster, err := adapter.FetchRoster(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if roster.Team.ID != "T1" {
		t.Errorf("Expected team T1, got %s", roster.Team.ID)
	}
	active := roster.ActiveUsers()
	if len(active) != 1 {
		t.Fatalf("Expected 1 active user, got %d", len(active))
	}
	if active["U1"]["img"] != "https://img/a24.png" {
		t.Errorf("Unexpected active user: %+v", active["U1"])
	}
}
