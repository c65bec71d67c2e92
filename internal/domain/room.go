package domain

// RoomState is an immutable snapshot of a room as sent to clients.
type RoomState struct {
	ID         string    `json:"id"`
	Members    []string  `json:"members"`
	Queue      []Video   `json:"queue"`
	NowPlaying *Playback `json:"now_playing"`
}

type Room struct {
	id         string
	members    *Members
	playlist   *Playlist
	nowPlaying *Playback
}

func NewRoom(id string) *Room {
	return &Room{
		id:       id,
		members:  NewMembers(),
		playlist: NewPlaylist(),
	}
}

func (r Room) GetState() RoomState {
	state := RoomState{
		ID:      r.id,
		Members: r.members.ParticipantIDs(),
		Queue:   r.playlist.AsList(),
	}

	if r.nowPlaying != nil {
		state.NowPlaying = r.nowPlaying.clone()
	}

	return state
}
