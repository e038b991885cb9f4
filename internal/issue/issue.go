// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	NoCourseId Id = iota + 1
	CourseLoadFailedId
	MalformedCourseId
	InconsistentCourseId
	ComponentNotFoundId
	NetworkUnavailableId
	AuthenticationFailedId
	UnexpectedResponseId
	InstallFailedId
	PermissionDeniedId
	ConfigLoadFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is guidance text in Markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the entry id.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render formats the guidance for a terminal using the glamour style at
// stylePath ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	noCourseIssue = &Issue{
		id: NoCourseId,
		mdMsg: `
# No course selected

This project has not been set up for a course yet.

## Things you can try
- Select a course by its configuration URL:
~~~
$ coursekit init https://plus.cs.aalto.fi/o1/course.json
~~~
- Or point to a local configuration file:
~~~
$ coursekit init ./course.json
~~~`,
	}

	courseLoadFailedIssue = &Issue{
		id: CourseLoadFailedId,
		mdMsg: `
# Could not load the course

The course configuration could not be read.

## Things you can try
- Check the course URL recorded in *.coursekit/course-url*
- Open the URL in a browser to see whether the server responds
- Run *coursekit init* again with the correct URL`,
	}

	malformedCourseIssue = &Issue{
		id: MalformedCourseId,
		mdMsg: `
# The course configuration is malformed

The document was fetched but does not describe a valid course. The error
above names the offending field.

## Things you can try
- Make sure the URL points at the course configuration and not an HTML page
- Report the problem to the course staff`,
	}

	inconsistentCourseIssue = &Issue{
		id: InconsistentCourseId,
		mdMsg: `
# The course refers to missing components

Some components depend on components the course does not define. Installing
them would leave them unusable.

## Things you can try
- Report the listed dependency names to the course staff`,
	}

	componentNotFoundIssue = &Issue{
		id: ComponentNotFoundId,
		mdMsg: `
# Component not found

The course has no module or library with that name. Names are case sensitive.

## Things you can try
- List the available components:
~~~
$ coursekit status
~~~`,
	}

	networkUnavailableIssue = &Issue{
		id: NetworkUnavailableId,
		mdMsg: `
# Network error

The server could not be reached.

## Things you can try
- Check your internet connection
- Check proxy settings (*HTTPS_PROXY*)
- Retry in a moment; the server may be temporarily unavailable`,
	}

	authenticationFailedIssue = &Issue{
		id: AuthenticationFailedId,
		mdMsg: `
# Authentication failed

The server rejected the request credentials.

## Things you can try
- Create a new API token on the course site
- Export it in the environment variable named by *fetch.token_env*:
~~~
$ export COURSEKIT_TOKEN=<token>
~~~`,
	}

	unexpectedResponseIssue = &Issue{
		id: UnexpectedResponseId,
		mdMsg: `
# Unexpected server response

The server answered, but not with the expected content.

## Things you can try
- Verify the URL in the course configuration
- Retry later; the course material may be being updated`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Installation failed

The component was downloaded but could not be written to the project. It is
marked as *error* until it is installed again.

## Things you can try
- Check free disk space and permissions of the project directory
- Run the install again:
~~~
$ coursekit install <name>
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

coursekit is not allowed to write to the project directory.

## Things you can try
- Check ownership of the project directory
- Run coursekit from a directory you own`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The coursekit configuration file could not be read.

## Things you can try
- Show the effective configuration:
~~~
$ coursekit config show
~~~
- Fix or remove the file named in the error`,
	}

	issues = map[Id]*Issue{
		noCourseIssue.Id():             noCourseIssue,
		courseLoadFailedIssue.Id():     courseLoadFailedIssue,
		malformedCourseIssue.Id():      malformedCourseIssue,
		inconsistentCourseIssue.Id():   inconsistentCourseIssue,
		componentNotFoundIssue.Id():    componentNotFoundIssue,
		networkUnavailableIssue.Id():   networkUnavailableIssue,
		authenticationFailedIssue.Id(): authenticationFailedIssue,
		unexpectedResponseIssue.Id():   unexpectedResponseIssue,
		installFailedIssue.Id():        installFailedIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, id := range slices.Sorted(maps.Keys(issues)) {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
