package stats

import "imagetools/config"

// New returns a Noop recorder when no Mongo URI is configured.
func New(conf config.Mongo) (Recorder, error) {
	if conf.URI == "" {
		return Noop{}, nil
	}

	m, err := NewMongo(conf)
	if err != nil {
		return nil, err
	}
	return m, nil
}
