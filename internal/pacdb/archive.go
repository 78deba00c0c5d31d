package pacdb

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/h0rv/pacfront/internal/domain"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicXz    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicBzip2 = []byte("BZh")
)

// decompress detects the codec of a sync database by its magic bytes.
// repo-add may produce gzip, zstd, xz, bzip2 or plain tar databases.
func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(magicXz))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, nil, err
	}

	noop := func() {}
	switch {
	case bytes.HasPrefix(magic, magicGzip):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case bytes.HasPrefix(magic, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zr, zr.Close, nil
	case bytes.HasPrefix(magic, magicXz):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return xr, noop, nil
	case bytes.HasPrefix(magic, magicBzip2):
		return bzip2.NewReader(br), noop, nil
	}
	return br, noop, nil
}

// ParseSyncArchive reads a sync database (repo.db or repo.files) and returns
// its packages sorted by name. Each package lives in a "name-ver-rel/"
// directory holding desc, and optionally files and the legacy depends record.
func ParseSyncArchive(r io.Reader, repo string) ([]*domain.Package, error) {
	dr, closeFn, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	tr := tar.NewReader(dr)
	byDir := make(map[string]*domain.Package)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		dir, record := path.Split(strings.TrimPrefix(header.Name, "./"))
		switch record {
		case "desc", "files", "depends":
		default:
			continue
		}

		pkg, ok := byDir[dir]
		if !ok {
			pkg = &domain.Package{Repo: repo}
			byDir[dir] = pkg
		}
		if err := parseDesc(tr, pkg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", header.Name, err)
		}
	}

	packages := make([]*domain.Package, 0, len(byDir))
	for _, pkg := range byDir {
		// a files record without desc carries no identity
		if pkg.Name == "" {
			continue
		}
		packages = append(packages, pkg)
	}
	sortByName(packages)
	return packages, nil
}

func sortByName(packages []*domain.Package) {
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
}
