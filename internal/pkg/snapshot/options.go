package snapshot

import "github.com/fredbi/symptoms/internal/pkg/userdata"

// Option configures a [Codec].
type Option func(*options)

type options struct {
	indent          bool
	userdataOptions []userdata.Option
}

// WithIndent produces indented JSON, for snapshots meant to be read by humans.
func WithIndent(enabled bool) Option {
	return func(o *options) {
		o.indent = enabled
	}
}

// WithUserDataOptions sets the options given to decoded [userdata.UserData].
func WithUserDataOptions(opts ...userdata.Option) Option {
	return func(o *options) {
		o.userdataOptions = append(o.userdataOptions, opts...)
	}
}

func optionsWithDefaults(opts []Option) options {
	var o options
	for _, apply := range opts {
		apply(&o)
	}

	return o
}
