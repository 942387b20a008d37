package jobspec

import (
	"encoding/json"
	"fmt"
	"os"

	"montage/internal/services"
)

// Clip is one source clip with its slot on the output timeline. Start and End
// are seconds on the final timeline; the clip is conformed to End - Start.
// Overlapping slots across clips are not validated and yield undefined output.
type Clip struct {
	File  string  `json:"file"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TargetDuration returns the slot length the clip must be conformed to.
func (c Clip) TargetDuration() float64 {
	return c.End - c.Start
}

// AudioClip is one narration part. Narration carries no timing fields: parts
// are assumed pre-aligned to the visual timeline and are joined in list order.
type AudioClip struct {
	File string `json:"file"`
}

// Avatar is a picture-in-picture overlay active during [Start, End] on the
// stitched-main timeline. Size scales the overlay relative to its own native
// dimensions; Position places it as fractions of the main canvas. A nil End
// defaults to Start plus the overlay source's duration.
type Avatar struct {
	File     string     `json:"file"`
	Start    float64    `json:"start"`
	End      *float64   `json:"end"`
	Size     [2]float64 `json:"size"`
	Position [2]float64 `json:"position"`
}

// Cue is one subtitle cue. Text is canonical after parsing; End defaults to
// Start + 2 when the document omits it. Empty-text cues are preserved as
// silent gap markers.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// rawCue mirrors the wire shape of a cue. The text fields are the ordered
// fallback list of recognized input keys; the first non-empty value wins.
// "tetx" covers a typo that real job documents carry.
type rawCue struct {
	Start    *float64 `json:"start"`
	End      *float64 `json:"end"`
	Text     string   `json:"text"`
	Tetx     string   `json:"tetx"`
	Content  string   `json:"content"`
	Subtitle string   `json:"subtitle"`
}

// UnmarshalJSON resolves alternate text keys and the defaulted end time once,
// at parse time.
func (c *Cue) UnmarshalJSON(data []byte) error {
	var raw rawCue
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start := 0.0
	if raw.Start != nil {
		start = *raw.Start
	}
	end := start + 2
	if raw.End != nil {
		end = *raw.End
	}
	text := ""
	for _, candidate := range []string{raw.Text, raw.Tetx, raw.Content, raw.Subtitle} {
		if candidate != "" {
			text = candidate
			break
		}
	}
	c.Start = start
	c.End = end
	c.Text = text
	return nil
}

// Output holds the required output parameters. Both fields are mandatory;
// there is no defaulting.
type Output struct {
	Resolution [2]int `json:"resolution"`
	FPS        int    `json:"fps"`
}

// Job aggregates one render job.
type Job struct {
	Videos    []Clip      `json:"videos"`
	Audios    []AudioClip `json:"audios"`
	Avatars   []Avatar    `json:"avatars"`
	Subtitles []Cue       `json:"subtitles"`
	Output    Output      `json:"output"`
}

// Load reads and validates a job description document.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "jobspec", "load", "", err)
	}
	return Parse(data)
}

// Parse decodes and validates a job description payload.
func Parse(data []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, services.Wrap(services.ErrValidation, "jobspec", "parse", "", err)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate enforces the required fields of the job description.
func (j *Job) Validate() error {
	fail := func(message string) error {
		return services.Wrap(services.ErrValidation, "jobspec", "validate", message, nil)
	}

	if len(j.Videos) == 0 {
		return fail("no videos listed")
	}
	for i, clip := range j.Videos {
		if clip.File == "" {
			return fail(fmt.Sprintf("video %d: missing file", i+1))
		}
		if clip.End <= clip.Start {
			return fail(fmt.Sprintf("video %d: end %v not after start %v", i+1, clip.End, clip.Start))
		}
	}
	for i, audio := range j.Audios {
		if audio.File == "" {
			return fail(fmt.Sprintf("audio %d: missing file", i+1))
		}
	}
	for i, avatar := range j.Avatars {
		if avatar.File == "" {
			return fail(fmt.Sprintf("avatar %d: missing file", i+1))
		}
		for axis := 0; axis < 2; axis++ {
			if avatar.Position[axis] < 0 || avatar.Position[axis] > 1 {
				return fail(fmt.Sprintf("avatar %d: position %v outside [0,1]", i+1, avatar.Position[axis]))
			}
		}
		if avatar.End != nil && *avatar.End < avatar.Start {
			return fail(fmt.Sprintf("avatar %d: end %v before start %v", i+1, *avatar.End, avatar.Start))
		}
	}
	if j.Output.Resolution[0] <= 0 || j.Output.Resolution[1] <= 0 {
		return fail("output resolution required")
	}
	if j.Output.FPS <= 0 {
		return fail("output fps required")
	}
	return nil
}
