// Package std holds the reference list of Python standard library modules.
package std

import "strings"

// Set is a set of top-level module names. It is static data injected into
// the classifier so a different Python version can swap it out.
type Set map[string]bool

// NewSet returns a Set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Contains reports whether the top-level segment of module is in s.
// Relative module paths are never contained.
func (s Set) Contains(module string) bool {
	if module == "" || strings.HasPrefix(module, ".") {
		return false
	}
	top, _, _ := strings.Cut(module, ".")
	return s[top]
}

// With returns a copy of s extended with extra names.
func (s Set) With(extra ...string) Set {
	out := make(Set, len(s)+len(extra))
	for n := range s {
		out[n] = true
	}
	for _, n := range extra {
		if n = strings.TrimSpace(n); n != "" {
			out[n] = true
		}
	}
	return out
}

// IsStandardModule reports whether module belongs to the Python 3 standard
// library.
func IsStandardModule(module string) bool {
	return StandardModules.Contains(module)
}

// StandardModules lists the top-level modules of the CPython 3 standard
// library, including ones removed in recent releases so older code keeps
// classifying the same way.
var StandardModules = NewSet(
	"__future__", "_abc", "_ast", "_asyncio", "_bisect", "_codecs",
	"_collections", "_collections_abc", "_compat_pickle", "_csv", "_ctypes",
	"_datetime", "_decimal", "_functools", "_heapq", "_io", "_json", "_locale",
	"_operator", "_pickle", "_posixsubprocess", "_random", "_socket", "_sqlite3",
	"_ssl", "_stat", "_string", "_struct", "_thread", "_threading_local",
	"_tracemalloc", "_warnings", "_weakref", "_weakrefset",
	"abc", "aifc", "antigravity", "argparse", "array", "ast", "asynchat",
	"asyncio", "asyncore", "atexit", "audioop",
	"base64", "bdb", "binascii", "bisect", "builtins", "bz2",
	"cProfile", "calendar", "cgi", "cgitb", "chunk", "cmath", "cmd", "code",
	"codecs", "codeop", "collections", "colorsys", "compileall", "concurrent",
	"configparser", "contextlib", "contextvars", "copy", "copyreg", "crypt",
	"csv", "ctypes", "curses",
	"dataclasses", "datetime", "dbm", "decimal", "difflib", "dis", "distutils",
	"doctest",
	"email", "encodings", "ensurepip", "enum", "errno",
	"faulthandler", "fcntl", "filecmp", "fileinput", "fnmatch", "fractions",
	"ftplib", "functools",
	"gc", "genericpath", "getopt", "getpass", "gettext", "glob", "graphlib",
	"grp", "gzip",
	"hashlib", "heapq", "hmac", "html", "http",
	"idlelib", "imaplib", "imghdr", "imp", "importlib", "inspect", "io",
	"ipaddress", "itertools",
	"json",
	"keyword",
	"lib2to3", "linecache", "locale", "logging", "lzma",
	"mailbox", "mailcap", "marshal", "math", "mimetypes", "mmap",
	"modulefinder", "msilib", "msvcrt", "multiprocessing",
	"netrc", "nis", "nntplib", "nt", "ntpath", "nturl2path", "numbers",
	"opcode", "operator", "optparse", "os", "ossaudiodev",
	"pathlib", "pdb", "pickle", "pickletools", "pipes", "pkgutil", "platform",
	"plistlib", "poplib", "posix", "posixpath", "pprint", "profile", "pstats",
	"pty", "pwd", "py_compile", "pyclbr", "pydoc", "pydoc_data", "pyexpat",
	"queue", "quopri",
	"random", "re", "readline", "reprlib", "resource", "rlcompleter", "runpy",
	"sched", "secrets", "select", "selectors", "shelve", "shlex", "shutil",
	"signal", "site", "smtpd", "smtplib", "sndhdr", "socket", "socketserver",
	"spwd", "sqlite3", "sre_compile", "sre_constants", "sre_parse", "ssl",
	"stat", "statistics", "string", "stringprep", "struct", "subprocess",
	"sunau", "symtable", "sys", "sysconfig", "syslog",
	"tabnanny", "tarfile", "telnetlib", "tempfile", "termios", "textwrap",
	"this", "threading", "time", "timeit", "tkinter", "token", "tokenize",
	"tomllib", "trace", "traceback", "tracemalloc", "tty", "turtle",
	"turtledemo", "types", "typing",
	"unicodedata", "unittest", "urllib", "uu", "uuid",
	"venv",
	"warnings", "wave", "weakref", "webbrowser", "winreg", "winsound",
	"wsgiref",
	"xdrlib", "xml", "xmlrpc",
	"zipapp", "zipfile", "zipimport", "zlib", "zoneinfo",
)
