package operations

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
)

// SetupLogging sends log messages to standard error under name, at l or
// above.
func SetupLogging(name, l string) error {
	if err := grip.SetSender(send.MakeErrorLogger()); err != nil {
		return errors.Wrap(err, "setting logger")
	}
	grip.SetName(name)

	return errors.WithStack(setLogLevel(l))
}

func setLogLevel(l string) error {
	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = level.FromString(l)

	return sender.SetLevel(info)
}
