// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptNotFoundId Id = iota + 1
	ScriptFetchFailedId
	NoMatchingOsSectionId
	CommandFailedId
	ShellNotFoundId
	ConfigLoadFailedId
	InvalidShellModeId
)

type (
	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		slug     string      // name accepted by `glrun guide`
		title    string      // one-line summary shown in the guide list
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Slug() string {
	return i.slug
}

func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guide for the terminal using the named glamour style
// ("dark", "light", "notty", "auto").
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id:    ScriptNotFoundId,
		slug:  "script-not-found",
		title: "The script file could not be read",
		mdMsg: `
# Script not found

glrun could not read the script you passed on the command line.

## Things you can try
- Check the path for typos. Relative paths are resolved from the current directory.
- Make sure the file is readable by the current user.
- Pass a full ` + "`http://`" + ` or ` + "`https://`" + ` URL to fetch a remote script.`,
	}

	scriptFetchFailedIssue = &Issue{
		id:    ScriptFetchFailedId,
		slug:  "fetch-failed",
		title: "A remote script could not be downloaded",
		mdMsg: `
# Remote script could not be fetched

The server did not answer with a successful response, the download timed out,
or the body was larger than the configured limit.

## Things you can try
- Open the URL in a browser and confirm it returns the raw script text.
- Raise the timeout for slow servers:
~~~
$ GLRUN_FETCH_TIMEOUT=2m glrun https://example.com/setup.glrun
~~~
- Raise ` + "`fetch.max_bytes`" + ` in your config file for very large scripts.`,
	}

	noMatchingOsSectionIssue = &Issue{
		id:    NoMatchingOsSectionId,
		slug:  "no-matching-os",
		title: "The script has no section for this operating system",
		mdMsg: `
# No section for this operating system

The script uses ` + "`@os`" + ` directives but none of them names the host.
glrun refuses to run it rather than silently doing nothing.

Host names are ` + "`linux`" + `, ` + "`macos`" + ` and ` + "`windows`" + `.
Directives are matched case-insensitively.

## Things you can try
- Add a section for your platform:
~~~
@linux
-echo "hello from linux"
~~~
- Validate against another platform without running anything:
~~~
$ glrun --validate --os windows setup.glrun
~~~`,
	}

	commandFailedIssue = &Issue{
		id:    CommandFailedId,
		slug:  "command-failed",
		title: "One or more commands exited with a non-zero status",
		mdMsg: `
# A command failed

glrun runs every selected command in order and keeps going after a failure.
Each failing command is printed together with its exit status, and glrun
exits with status 1 once the script has finished.

## Things you can try
- Run the failing command by hand in the same shell to see its full output.
- Re-run with ` + "`--debug`" + ` to log every command as it starts and finishes.
- Check that the shell glrun uses is the one you expect (` + "`glrun config show`" + `).`,
	}

	shellNotFoundIssue = &Issue{
		id:    ShellNotFoundId,
		slug:  "shell-not-found",
		title: "The shell could not be started",
		mdMsg: `
# The shell could not be started

glrun could not start the shell for a command. This usually means the shell
binary is missing from ` + "`PATH`" + `.

## Things you can try
- Point glrun at a shell explicitly in your config file:
~~~
shell: {
	path: "/bin/bash"
}
~~~
- Use the built-in POSIX interpreter, which needs no external shell:
~~~
$ glrun --shell virtual setup.glrun
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:    ConfigLoadFailedId,
		slug:  "config-load-failed",
		title: "The configuration file could not be loaded",
		mdMsg: `
# Configuration could not be loaded

glrun reads ` + "`config.cue`" + ` or ` + "`config.toml`" + ` from its config directory.
The file exists but could not be parsed or does not match the schema.

## Things you can try
- Print the location glrun reads from:
~~~
$ glrun config path
~~~
- Write a fresh default file and compare:
~~~
$ glrun config init --force
~~~`,
	}

	invalidShellModeIssue = &Issue{
		id:    InvalidShellModeId,
		slug:  "invalid-shell-mode",
		title: "An unknown shell mode was requested",
		mdMsg: `
# Invalid shell mode

The shell mode must be either ` + "`native`" + ` (run commands with the system shell)
or ` + "`virtual`" + ` (run commands with the built-in POSIX interpreter).

## Things you can try
~~~
$ glrun --shell native setup.glrun
~~~`,
		extLinks: []HttpLink{"https://github.com/mvdan/sh"},
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():      scriptNotFoundIssue,
		scriptFetchFailedIssue.Id():   scriptFetchFailedIssue,
		noMatchingOsSectionIssue.Id(): noMatchingOsSectionIssue,
		commandFailedIssue.Id():       commandFailedIssue,
		shellNotFoundIssue.Id():       shellNotFoundIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidShellModeIssue.Id():    invalidShellModeIssue,
	}
)

// Values returns every guide ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds a guide by slug.
func Lookup(slug string) (*Issue, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, i := range issues {
		if i.slug == slug {
			return i, true
		}
	}
	return nil, false
}
