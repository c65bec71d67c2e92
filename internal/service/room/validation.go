package room

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var RoomIdRule = []validation.Rule{
	validation.Required,
	validation.Length(1, 128),
}

var ParticipantIdRule = []validation.Rule{
	validation.Required,
	validation.Length(1, 128),
}

var ConnectionIdRule = []validation.Rule{
	validation.Required,
}

var VideoIdRule = []validation.Rule{
	validation.Required,
}

var VideoUrlRule = []validation.Rule{
	validation.Required,
	validation.Length(1, 2048),
}

var SeekTimeRule = []validation.Rule{
	validation.Min(0.0),
}
