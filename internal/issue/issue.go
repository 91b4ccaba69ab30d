// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	SettingsFileInvalidId Id = iota + 1
	SettingsValidationFailedId
	OverrideKeyNotFoundId
	NamespaceRegistrationFailedId
	ConfigLoadFailedId
	InvalidOverrideFormatId
	PermissionDeniedId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	settingsFileInvalidIssue = &Issue{
		id: SettingsFileInvalidId,
		mdMsg: `
# A settings file could not be read!

One of the settings files exists but is not valid TOML, or could not be read.

## Settings files (lowest to highest precedence):
1. Package defaults shipped with the binary
2. ` + "`settings.toml`" + ` in the project root
3. ` + "`$XDG_CONFIG_HOME/color-scheme/settings.toml`" + `

## Things you can try:
- Check the TOML syntax near the line and column in the error
- Make sure every namespace is a table:
~~~toml
[core.generation]
default_backend = "pywal"
~~~

- Check the file permissions`,
		extLinks: []HttpLink{"https://toml.io/en/v1.0.0"},
	}

	settingsValidationFailedIssue = &Issue{
		id: SettingsValidationFailedId,
		mdMsg: `
# Settings failed validation!

The merged settings for a namespace do not match its schema. The error
names the namespace, the field and the highest layer that set it.

## Things you can try:
- Fix the value in the layer named in the error
- Inspect where every value comes from:
~~~
$ colorscheme config resolve
~~~

- Check the allowed ranges, e.g. ` + "`saturation_adjustment`" + ` must be between 0.0 and 2.0`,
	}

	overrideKeyNotFoundIssue = &Issue{
		id: OverrideKeyNotFoundId,
		mdMsg: `
# Unknown setting key!

Overrides can only replace settings that already exist. Keys use dot
notation with the namespace first.

## Examples:
~~~
$ colorscheme config show --set core.generation.saturation_adjustment=1.5
$ colorscheme config show --set orchestrator.engine=podman
~~~

## Things you can try:
- List every known key:
~~~
$ colorscheme config resolve
~~~`,
	}

	namespaceRegistrationFailedIssue = &Issue{
		id: NamespaceRegistrationFailedId,
		mdMsg: `
# A settings namespace could not be registered!

Every namespace must have a unique, non-empty name and a schema. This is a
programming error in the component that registers the namespace.

## Things you can try:
- Report the issue together with the output of ` + "`colorscheme --version`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The settings could not be loaded.

## Things you can try:
- Check the project and user settings files for syntax errors
- Start over from the packaged defaults by moving your settings files aside
- Run with ` + "`--verbose`" + ` to see the full error chain`,
	}

	invalidOverrideFormatIssue = &Issue{
		id: InvalidOverrideFormatId,
		mdMsg: `
# Invalid override!

Overrides are passed as ` + "`key=value`" + ` pairs.

## Examples:
~~~
$ colorscheme config show --set core.logging.level=DEBUG
$ colorscheme config show --set 'core.output.formats=["json", "css"]'
~~~

Values are read as TOML scalars: numbers, booleans, quoted strings and
arrays. Anything else is taken as a plain string.`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A settings file or directory could not be accessed.

## Things you can try:
- Check the permissions of your settings files and their directories
- Point at a different user settings file with ` + "`--user-config`",
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Settings watcher stopped!

The file watcher could not keep observing the settings files.

## Things you can try:
- Raise the inotify watch limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~

- Make sure the watched directories still exist`,
	}

	issues = map[Id]*Issue{
		settingsFileInvalidIssue.Id():         settingsFileInvalidIssue,
		settingsValidationFailedIssue.Id():    settingsValidationFailedIssue,
		overrideKeyNotFoundIssue.Id():         overrideKeyNotFoundIssue,
		namespaceRegistrationFailedIssue.Id(): namespaceRegistrationFailedIssue,
		configLoadFailedIssue.Id():            configLoadFailedIssue,
		invalidOverrideFormatIssue.Id():       invalidOverrideFormatIssue,
		permissionDeniedIssue.Id():            permissionDeniedIssue,
		watchFailedIssue.Id():                 watchFailedIssue,
	}
)

func Values() []*Issue {
	return slices.Collect(maps.Values(issues))
}

func Get(id Id) *Issue {
	return issues[id]
}
