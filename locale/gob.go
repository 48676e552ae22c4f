package locale

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"
)

func EncodeGOB(w io.Writer, s *Snapshot) error {
	return gob.NewEncoder(w).Encode(s)
}

func DecodeGOB(r io.Reader) (*Snapshot, error) {
	s := &Snapshot{}
	return s, gob.NewDecoder(r).Decode(s)
}

func StoreGOB(file string, s *Snapshot) error {
	tmp := fmt.Sprintf("%s.%d.tmp", file, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := EncodeGOB(f, s); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	f.Close()
	return os.Rename(tmp, file)
}

func LoadGOB(file string) (*Snapshot, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	s, err := DecodeGOB(f)
	f.Close()
	return s, err
}

// LoadCached returns the GOB snapshot stored in file when it matches the
// current directory contents. Otherwise the directory is loaded and the
// cache rewritten.
func (l *Loader) LoadCached(ctx context.Context, file string) (*Snapshot, error) {
	fp, err := l.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}
	if cached, err := LoadGOB(file); err == nil && cached.Version == fp {
		l.Log.Debug().Str("file", file).Msg("using snapshot cache")
		return cached, nil
	}

	s, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := StoreGOB(file, s); err != nil {
		l.Log.Warn().Err(err).Str("file", file).Msg("could not write snapshot cache")
	}
	return s, nil
}
