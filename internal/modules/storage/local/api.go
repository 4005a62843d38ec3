package local

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

type Store struct {
	Directory string
}

func New(directory string) *Store {
	return &Store{Directory: directory}
}

func (s *Store) Save(name string, data []byte) (string, error) {
	path := filepath.Join(s.Directory, filepath.Base(name))
	return path, SaveFile(bytes.NewReader(data), path)
}

func SaveFile(f io.Reader, path string) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0770)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, f)
	if err != nil {
		return err
	}
	return nil
}
