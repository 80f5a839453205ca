package changelog

import (
	"apidiff/internal/apidump"
	"apidiff/internal/errors"
	"apidiff/internal/logging"
	"apidiff/internal/render"
)

// Describe loads one snapshot and lists its contents as text or markup.
func Describe(logger *logging.Logger, payload, security []byte, format Format, lineEnding string) (string, error) {
	db, err := loadSnapshot(apidump.NewLoader(logger), payload, security)
	if err != nil {
		return "", err
	}
	switch format {
	case "", FormatText:
		return render.TextRenderer{LineEnding: lineEnding}.DescribeText(db), nil
	case FormatMarkup:
		return render.DescribeMarkup(db)
	}
	return "", errors.Newf(errors.InvalidRequest, "describe supports text and markup, not %q", format)
}
