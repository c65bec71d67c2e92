package domain

import "time"

// Registry owns every live room and the connection -> room index.
//
// It does no I/O and holds no locks: callers must serialize access. All
// lookups of rooms or videos that no longer exist are silent no-ops, because
// those are ordinary races between a client's intent and the server state.
type Registry struct {
	rooms     map[string]*Room
	connRooms map[string]string
	now       func() time.Time
}

type Option func(*Registry)

// WithClock overrides the clock used to stamp playback state.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rooms:     make(map[string]*Room),
		connRooms: make(map[string]string),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Registry) CreateRoom(roomID string) {
	if _, ok := r.rooms[roomID]; ok {
		return
	}

	r.rooms[roomID] = NewRoom(roomID)
}

// JoinRoom creates the room on first use and binds the connection to it.
// A connection bound to another room is detached from that room first.
func (r *Registry) JoinRoom(roomID, participantID, connectionID string) {
	if current, ok := r.connRooms[connectionID]; ok && current != roomID {
		r.LeaveRoom(connectionID)
	}

	r.CreateRoom(roomID)
	r.rooms[roomID].members.Add(connectionID, participantID)
	r.connRooms[connectionID] = roomID
}

// LeaveRoom unbinds the connection. It returns the room id when the room
// still exists afterwards, and false when the connection was unbound or the
// room was destroyed because it became empty.
func (r *Registry) LeaveRoom(connectionID string) (string, bool) {
	roomID, ok := r.connRooms[connectionID]
	if !ok {
		return "", false
	}
	delete(r.connRooms, connectionID)

	room, ok := r.rooms[roomID]
	if !ok {
		return "", false
	}

	room.members.Remove(connectionID)
	if room.members.Length() == 0 {
		delete(r.rooms, roomID)
		return "", false
	}

	return roomID, true
}

func (r *Registry) GetRoomState(roomID string) (RoomState, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return RoomState{}, false
	}

	return room.GetState(), true
}

func (r *Registry) AddVideo(roomID string, data VideoData) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}

	room.playlist.Add(data)
}

func (r *Registry) VoteForVideo(roomID, participantID, videoID string) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}

	// the video may already be playing or gone
	_ = room.playlist.ToggleVote(videoID, participantID)
}

// StartNextVideo promotes the queue head to now playing, or clears now
// playing when the queue is empty.
func (r *Registry) StartNextVideo(roomID string) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}

	video, ok := room.playlist.PopHead()
	if !ok {
		room.nowPlaying = nil
		return
	}

	room.nowPlaying = NewPlayback(video, r.now())
}

func (r *Registry) UpdatePlaybackState(roomID string, patch PlaybackPatch) {
	room, ok := r.rooms[roomID]
	if !ok || room.nowPlaying == nil {
		return
	}

	room.nowPlaying.apply(patch, r.now())
}

func (r *Registry) RoomOf(connectionID string) (string, bool) {
	roomID, ok := r.connRooms[connectionID]
	return roomID, ok
}

// Connections lists the connection ids bound to the room, for fan-out.
func (r *Registry) Connections(roomID string) []string {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	return room.members.ConnectionIDs()
}

func (r *Registry) QueueLength(roomID string) int {
	room, ok := r.rooms[roomID]
	if !ok {
		return 0
	}

	return room.playlist.Length()
}
