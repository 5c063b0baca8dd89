package media

import "encoding/json"

// Info is the metadata document produced by --dump-single-json.
// Only commonly used fields are typed; Raw keeps the full document.
type Info struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Uploader      string      `json:"uploader"`
	Channel       string      `json:"channel"`
	Duration      float64     `json:"duration"`
	ViewCount     int64       `json:"view_count"`
	WebpageURL    string      `json:"webpage_url"`
	Extractor     string      `json:"extractor"`
	Ext           string      `json:"ext"`
	Thumbnail     string      `json:"thumbnail"`
	Type          string      `json:"_type"`
	IsLive        bool        `json:"is_live"`
	Formats       []Format    `json:"formats"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	Entries       []Info      `json:"entries"`
	PlaylistCount int         `json:"playlist_count"`

	Raw json.RawMessage `json:"-"`
}

// Format is one entry of the formats list
type Format struct {
	FormatID   string  `json:"format_id"`
	FormatNote string  `json:"format_note"`
	Ext        string  `json:"ext"`
	URL        string  `json:"url"`
	Protocol   string  `json:"protocol"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize"`
	TBR        float64 `json:"tbr"`
	Resolution string  `json:"resolution"`
}

// HasVideo reports whether the format carries a video stream
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio stream
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// Thumbnail is one entry of the thumbnails list
type Thumbnail struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Preference int    `json:"preference"`
}

// IsPlaylist reports whether the document describes a playlist
func (i *Info) IsPlaylist() bool {
	return i.Type == "playlist"
}

// UnmarshalJSON decodes the typed fields and keeps the full document in Raw
func (i *Info) UnmarshalJSON(data []byte) error {
	type plain Info
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Info(p)
	i.Raw = append(json.RawMessage(nil), data...)
	return nil
}
