// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	ConfigLoadFailedId Id = iota + 1
	PackageNotFoundId
	PackageParseErrorId
	DependencyCycleId
	DependencyConflictId
	UnsatisfiableDependencyId
	ExplicitDependencyId
	PermissionDeniedId
	PackageFailedId
	RepositoryUnavailableId
)

type (
	// Id identifies a catalog entry.
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a catalog entry: Markdown guidance shown when a class of
	// error reaches the user.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the configuration mcpkg would use:
~~~
$ mcpkg config show
~~~
- Write a fresh configuration with the defaults:
~~~
$ mcpkg config init
~~~
- Pass another file with ` + "`--config path/to/config.cue`",
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

No configured repository has a package with this name, or its version does
not match the requested pattern.

## Things you can try:
- Check the package name for typos
- Add a directory repository with ` + "`--repo ./packages`" + `
- Add a remote repository to the ` + "`repositories`" + ` list of your config
- Relax the version pattern of the package in your profile`,
	}

	packageParseErrorIssue = &Issue{
		id: PackageParseErrorId,
		mdMsg: `
# Package could not be parsed!

A package script or declarative document has a syntax error or an invalid
field.

## Things you can try:
- Check the file and see the exact position of the error:
~~~
$ mcpkg check path/to/package.pkg.txt
~~~
- Statements end in ` + "`;`" + ` and routines start with ` + "`@name {`",
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Packages require each other in a loop, so there is no order to install them.

## Things you can try:
- Replace one of the requirements in the cycle with ` + "`recommend`" + `
- Use ` + "`bundle`" + ` only for packages that do not depend back on the bundler`,
	}

	dependencyConflictIssue = &Issue{
		id: DependencyConflictId,
		mdMsg: `
# Conflicting packages!

One package refuses another package that is also part of the profile.

## Things you can try:
- Remove one of the two packages from your profile
- Disable the feature that pulls in the refused package`,
	}

	unsatisfiableDependencyIssue = &Issue{
		id: UnsatisfiableDependencyId,
		mdMsg: `
# Dependency cannot be satisfied!

None of the alternatives of a requirement could be found or installed.

## Things you can try:
- Add one of the alternatives to your profile
- Add a repository that provides one of them`,
	}

	explicitDependencyIssue = &Issue{
		id: ExplicitDependencyId,
		mdMsg: `
# Explicit dependency missing!

A package requires another package that must be added to the profile by hand.

## Things you can try:
- Add the required package to the ` + "`packages`" + ` list of your profile`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Insufficient permissions!

A package wants to run a command, which needs the elevated permission level.

## Things you can try:
- Review what the package runs with ` + "`mcpkg plan`" + `
- Set ` + "`permissions: \"elevated\"`" + ` on the package in your profile if you trust it`,
	}

	packageFailedIssue = &Issue{
		id: PackageFailedId,
		mdMsg: `
# Package refused to install!

The package stopped its own installation, usually because the profile does
not meet one of its requirements.

## Things you can try:
- Read the reason given by the package
- Check the game version and modloader of your profile`,
	}

	repositoryUnavailableIssue = &Issue{
		id: RepositoryUnavailableId,
		mdMsg: `
# Repository unavailable!

A remote repository kept failing or rate limiting requests.

## Things you can try:
- Check your network connection
- Try again in a few minutes
- Use a local directory repository with ` + "`--repo`",
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		packageNotFoundIssue.Id():         packageNotFoundIssue,
		packageParseErrorIssue.Id():       packageParseErrorIssue,
		dependencyCycleIssue.Id():         dependencyCycleIssue,
		dependencyConflictIssue.Id():      dependencyConflictIssue,
		unsatisfiableDependencyIssue.Id(): unsatisfiableDependencyIssue,
		explicitDependencyIssue.Id():      explicitDependencyIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
		packageFailedIssue.Id():           packageFailedIssue,
		repositoryUnavailableIssue.Id():   repositoryUnavailableIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guidance with a glamour style such as "dark" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, id := range slices.Sorted(maps.Keys(issues)) {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the catalog entry with the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
