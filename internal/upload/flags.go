package upload

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bilistage/internal/services"
)

// DtimeLayout is the layout scheduled publish times are written in.
const DtimeLayout = "2006-01-02 15:04:05"

// Flags holds the uploader options for one video.
type Flags struct {
	Limit int
	TID   int
	Cover string
	Tag   string
	Desc  string
	// Dtime is a scheduled publish time in DtimeLayout, local time.
	Dtime string
}

// Args renders f. The tag is required by the upload target.
func (f Flags) Args(loc *time.Location) ([]string, error) {
	if strings.TrimSpace(f.Tag) == "" {
		return nil, services.Wrap(services.ErrValidation, "upload", "flags", "tag is required", nil)
	}
	args := []string{
		"--limit", strconv.Itoa(f.Limit),
		"--tid", strconv.Itoa(f.TID),
	}
	if f.Cover != "" {
		args = append(args, "--cover", f.Cover)
	}
	args = append(args, "--tag", f.Tag)
	if f.Desc != "" {
		args = append(args, "--desc", f.Desc)
	}
	if f.Dtime != "" {
		ts, err := ParseDtime(f.Dtime, loc)
		if err != nil {
			return nil, err
		}
		args = append(args, "--dtime", strconv.FormatInt(ts, 10))
	}
	return args, nil
}

// ParseDtime converts a DtimeLayout value to unix seconds.
func ParseDtime(value string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DtimeLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "upload", "dtime", fmt.Sprintf("%q is not %s", value, DtimeLayout), err)
	}
	return t.Unix(), nil
}
