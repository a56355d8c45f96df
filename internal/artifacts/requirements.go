package artifacts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Requirement is one entry of requirements.json: either an install step or a
// warning about packages whose versions could not be determined.
type Requirement struct {
	Warning  string `json:"Warning,omitempty"`
	Packages string `json:"Packages,omitempty"`
	Step     string `json:"step,omitempty"`
	Command  string `json:"command,omitempty"`
}

var (
	importRe     = regexp.MustCompile(`^\s*import\s+(.+)$`)
	fromImportRe = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\s+`)
)

// importToDistribution maps import names to the pip distribution that
// provides them when the two differ.
var importToDistribution = map[string]string{
	"sklearn":  "scikit-learn",
	"yaml":     "pyyaml",
	"cv2":      "opencv-python",
	"PIL":      "pillow",
	"bs4":      "beautifulsoup4",
	"dateutil": "python-dateutil",
}

// pythonStdlib holds the modules that never need installing: the standard
// library plus settings, which SAS provides to score code at runtime.
var pythonStdlib = map[string]bool{}

func init() {
	for _, m := range strings.Fields(`__future__ abc argparse array ast asyncio base64 bisect builtins bz2
		calendar cmath codecs collections concurrent configparser contextlib copy csv ctypes
		dataclasses datetime decimal difflib enum errno fnmatch fractions functools gc getpass
		glob gzip hashlib heapq hmac html http importlib inspect io itertools json logging lzma
		math multiprocessing numbers operator os pathlib pickle pickletools platform pprint
		queue random re secrets shlex shutil signal socket sqlite3 ssl statistics string struct
		subprocess sys tempfile textwrap threading time timeit traceback types typing unicodedata
		unittest urllib uuid warnings weakref xml zipfile zlib settings`) {
		pythonStdlib[m] = true
	}
}

// FindImports returns the top level packages imported by Python source.
// Relative imports are ignored.
func FindImports(r io.Reader) ([]string, error) {
	seen := map[string]bool{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if m := fromImportRe.FindStringSubmatch(line); m != nil {
			if !strings.HasPrefix(m[1], ".") {
				seen[topLevel(m[1])] = true
			}
			continue
		}
		if m := importRe.FindStringSubmatch(line); m != nil {
			for _, part := range strings.Split(m[1], ",") {
				fields := strings.Fields(part)
				if len(fields) == 0 {
					continue
				}
				seen[topLevel(fields[0])] = true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan imports: %w", err)
	}
	out := make([]string, 0, len(seen))
	for pkg := range seen {
		if pkg != "" {
			out = append(out, pkg)
		}
	}
	sort.Strings(out)
	return out, nil
}

func topLevel(module string) string {
	module = strings.TrimSpace(module)
	if i := strings.Index(module, "."); i >= 0 {
		return module[:i]
	}
	return module
}

// ParsePipFreeze reads `pip freeze` output into a lower-cased name to version
// map.
func ParsePipFreeze(r io.Reader) (map[string]string, error) {
	versions := map[string]string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, version, ok := strings.Cut(line, "==")
		if !ok {
			continue
		}
		versions[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(version)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pip freeze: %w", err)
	}
	return versions, nil
}

// CodeDependencies collects third-party imports of every *.py file in dir.
func CodeDependencies(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.py"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	seen := map[string]bool{}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		imports, err := FindImports(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		for _, imp := range imports {
			if !pythonStdlib[imp] {
				seen[imp] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for pkg := range seen {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out, nil
}

// BuildRequirements pairs each package with its installed version. Packages
// without a version are listed in a leading warning entry.
func BuildRequirements(packages []string, versions map[string]string) []Requirement {
	var missing []string
	var steps []Requirement
	for _, pkg := range packages {
		dist := pkg
		if d, ok := importToDistribution[pkg]; ok {
			dist = d
		}
		version, ok := versions[strings.ToLower(dist)]
		if !ok || version == "" {
			log.Warnf("package %s was not found in the provided environment; review requirements.json", dist)
			missing = append(missing, dist)
			continue
		}
		steps = append(steps, Requirement{
			Step:    "install " + dist,
			Command: fmt.Sprintf("pip install %s==%s", dist, version),
		})
	}

	reqs := make([]Requirement, 0, len(steps)+1)
	if len(missing) > 0 {
		reqs = append(reqs, Requirement{
			Warning:  "The existence and/or versions for the following packages could not be determined:",
			Packages: strings.Join(missing, ", "),
		})
	}
	return append(reqs, steps...)
}

// CreateRequirementsJSON scans modelDir and writes requirements.json.
func CreateRequirementsJSON(modelDir string, versions map[string]string, dir string) (map[string][]byte, error) {
	packages, err := CodeDependencies(modelDir)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(BuildRequirements(packages, versions), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", RequirementsFile, err)
	}
	return WriteOrReturn(dir, RequirementsFile, data)
}
