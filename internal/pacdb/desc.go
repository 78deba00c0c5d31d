package pacdb

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/h0rv/pacfront/internal/domain"
)

// parseDesc reads a pacman database record (desc, files or legacy depends)
// into pkg. Records are blocks of a "%HEADER%" line followed by values, one
// per line, terminated by an empty line. Unknown headers are skipped.
func parseDesc(r io.Reader, pkg *domain.Package) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header string
	var depends, optDepends, provides, conflicts, replaces []string

	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		line := strings.TrimSpace(raw)
		if line == "" {
			header = ""
			continue
		}

		if header == "" && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			header = line
			continue
		}

		switch header {
		case "%NAME%":
			pkg.Name = line
		case "%VERSION%":
			pkg.Version = line
		case "%BASE%":
			pkg.Base = line
		case "%DESC%":
			pkg.Description = line
		case "%URL%":
			pkg.URL = line
		case "%ARCH%":
			pkg.Arch = line
		case "%PACKAGER%":
			pkg.Packager = line
		case "%BUILDDATE%":
			pkg.BuildDate = parseInt(line)
		case "%INSTALLDATE%":
			pkg.InstallDate = parseInt(line)
		case "%SIZE%", "%ISIZE%":
			pkg.InstalledSize = parseInt(line)
		case "%CSIZE%":
			pkg.DownloadSize = parseInt(line)
		case "%REASON%":
			if line == "1" {
				pkg.Reason = domain.ReasonDepend
			}
		case "%LICENSE%":
			pkg.Licenses = append(pkg.Licenses, line)
		case "%GROUPS%":
			pkg.Groups = append(pkg.Groups, line)
		case "%DEPENDS%":
			depends = append(depends, line)
		case "%OPTDEPENDS%":
			optDepends = append(optDepends, line)
		case "%PROVIDES%":
			provides = append(provides, line)
		case "%CONFLICTS%":
			conflicts = append(conflicts, line)
		case "%REPLACES%":
			replaces = append(replaces, line)
		case "%FILES%":
			pkg.Files = append(pkg.Files, domain.NewFile(raw))
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	// legacy sync dbs split these across desc and depends; never clobber
	// a block read from an earlier record with an absent one
	if len(depends) > 0 {
		pkg.Depends = parseDepends(depends)
	}
	if len(optDepends) > 0 {
		pkg.OptDepends = parseDepends(optDepends)
	}
	if len(provides) > 0 {
		pkg.Provides = parseDepends(provides)
	}
	if len(conflicts) > 0 {
		pkg.Conflicts = parseDepends(conflicts)
	}
	if len(replaces) > 0 {
		pkg.Replaces = parseDepends(replaces)
	}
	return nil
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
