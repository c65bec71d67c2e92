package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soundlab/server/internal/domain"
	"github.com/soundlab/server/internal/repository/connection/inmemory"
	"github.com/soundlab/server/internal/repository/queue/sqlite"
	"github.com/soundlab/server/internal/service/room"
	"github.com/soundlab/server/pkg/ytvideodata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *httptest.Server
	token  func(userId string) string
}

func newTestEnv(t *testing.T) *testEnv {
	oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		videoURL := r.URL.Query().Get("url")
		if !strings.HasSuffix(videoURL, "v=dQw4w9WgXcQ") && !strings.HasSuffix(videoURL, "v=9bZkp7q19f0") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"title":"video %s","author_name":"someone","thumbnail_url":"https://thumb"}`, videoURL[len(videoURL)-11:])
	}))
	t.Cleanup(oembed.Close)

	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	service := room.NewService(
		domain.NewRegistry(),
		sqlite.NewRepo(db),
		inmemory.NewRepo(),
		ytvideodata.New(ytvideodata.Config{OEmbedURL: oembed.URL}),
		slog.Default(),
		&room.Config{QueueLimit: 10, Secret: "test-secret"},
	)

	server := httptest.NewServer(NewController(service, slog.Default(), &Config{CORSOrigin: "*"}).GetMux())
	t.Cleanup(server.Close)

	return &testEnv{
		server: server,
		token: func(userId string) string {
			token, err := service.IssueToken(userId, time.Hour)
			require.NoError(t, err)
			return token
		},
	}
}

func (e *testEnv) dial(t *testing.T, userId string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/v1/ws?token=" + e.token(userId)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, messageType string, payload any) {
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    messageType,
		"payload": payload,
	}))
}

func read(t *testing.T, conn *websocket.Conn) room.Output {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var raw struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&raw))

	return room.Output{Type: raw.Type, Payload: raw.Payload}
}

func readState(t *testing.T, conn *websocket.Conn) domain.RoomState {
	out := read(t, conn)
	require.Equal(t, room.TypeRoomStateUpdate, out.Type)

	var state domain.RoomState
	require.NoError(t, json.Unmarshal(out.Payload.(json.RawMessage), &state))
	return state
}

func (e *testEnv) addVideo(t *testing.T, userId, roomId, videoURL string) *http.Response {
	body, _ := json.Marshal(map[string]string{"video_url": videoURL})
	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/api/v1/rooms/"+roomId+"/videos", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token(userId))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)

	resp, err := http.Get(e.server.URL + "/api/v1/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWSRejectsMissingOrBadToken(t *testing.T) {
	e := newTestEnv(t)
	base := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/v1/ws"

	_, resp, err := websocket.DefaultDialer.Dial(base, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+e.token("u1"))
	conn, _, err := websocket.DefaultDialer.Dial(base, header)
	require.NoError(t, err)
	conn.Close()
}

func TestRoomFlow(t *testing.T) {
	e := newTestEnv(t)

	c1 := e.dial(t, "u1")
	c2 := e.dial(t, "u2")

	send(t, c1, "JOIN_ROOM", map[string]string{"room_id": "abc"})
	state := readState(t, c1)
	assert.Equal(t, "abc", state.ID)
	assert.Equal(t, []string{"u1"}, state.Members)

	send(t, c2, "JOIN_ROOM", map[string]string{"room_id": "abc"})
	assert.Equal(t, []string{"u1", "u2"}, readState(t, c1).Members)
	assert.Equal(t, []string{"u1", "u2"}, readState(t, c2).Members)

	resp := e.addVideo(t, "u1", "abc", "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Data struct {
			ID         string `json:"id"`
			ExternalID string `json:"external_id"`
			Title      string `json:"title"`
			AddedBy    string `json:"added_by"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "dQw4w9WgXcQ", created.Data.ExternalID)
	assert.Equal(t, "video dQw4w9WgXcQ", created.Data.Title)
	assert.Equal(t, "u1", created.Data.AddedBy)

	for _, c := range []*websocket.Conn{c1, c2} {
		state := readState(t, c)
		require.NotNil(t, state.NowPlaying)
		assert.Equal(t, created.Data.ID, state.NowPlaying.Video.ID)
		assert.True(t, state.NowPlaying.IsPlaying)
	}

	// dropped: malformed, unknown, invalid payload
	require.NoError(t, c1.WriteMessage(websocket.TextMessage, []byte(`{oops`)))
	send(t, c1, "DANCE", map[string]string{})
	send(t, c1, "PLAYBACK_CHANGE", map[string]any{"room_id": "abc", "seek_time": -3})

	send(t, c1, "PLAYBACK_CHANGE", map[string]any{"room_id": "abc", "is_playing": false, "seek_time": 42})
	out := read(t, c2)
	assert.Equal(t, room.TypeRoomStateUpdate, out.Type)
	assert.JSONEq(t, `{"now_playing":{"is_playing":false,"seek_time":42}}`, string(out.Payload.(json.RawMessage)))

	// c1 must not see its own playback change: the next frame it gets is the
	// snapshot produced by the request below
	send(t, c2, "REQUEST_NEXT_VIDEO", map[string]string{"room_id": "abc"})
	state = readState(t, c1)
	assert.Nil(t, state.NowPlaying)
	assert.Nil(t, readState(t, c2).NowPlaying)

	resp = e.addVideo(t, "u2", "abc", "9bZkp7q19f0")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	readState(t, c1)
	readState(t, c2)

	resp = e.addVideo(t, "u2", "abc", "dQw4w9WgXcQ")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	state = readState(t, c1)
	readState(t, c2)
	require.Len(t, state.Queue, 1)
	queued := state.Queue[0].ID

	send(t, c2, "VOTE_VIDEO", map[string]string{"room_id": "abc", "video_id": queued})
	state = readState(t, c1)
	assert.Equal(t, []string{"u2"}, state.Queue[0].Votes)
	readState(t, c2)

	c2.Close()
	state = readState(t, c1)
	assert.Equal(t, []string{"u1"}, state.Members)

	httpResp, err := http.Get(e.server.URL + "/api/v1/rooms/abc/state")
	require.NoError(t, err)
	defer httpResp.Body.Close()
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)

	httpResp, err = http.Get(e.server.URL + "/api/v1/rooms/abc/videos")
	require.NoError(t, err)
	defer httpResp.Body.Close()
	var history struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&history))
	assert.Len(t, history.Data, 3)
}

func TestAddVideoErrors(t *testing.T) {
	e := newTestEnv(t)

	c1 := e.dial(t, "u1")
	send(t, c1, "JOIN_ROOM", map[string]string{"room_id": "abc"})
	readState(t, c1)

	resp := e.addVideo(t, "u1", "missing", "dQw4w9WgXcQ")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = e.addVideo(t, "u1", "abc", "https://example.com/watch")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.addVideo(t, "u1", "abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.addVideo(t, "u1", "abc", "xxxxxxxxxxx")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/api/v1/rooms/abc/videos", strings.NewReader(`{"video_url":"dQw4w9WgXcQ"}`))
	require.NoError(t, err)
	unauth, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer unauth.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, unauth.StatusCode)
}

func TestGetRoomStateMissing(t *testing.T) {
	e := newTestEnv(t)

	resp, err := http.Get(e.server.URL + "/api/v1/rooms/nope/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
