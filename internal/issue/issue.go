// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	NoDotfilesFoundId Id = iota + 1
	DescriptorMalformedId
	BundleNotFoundId
	InstallerNotFoundId
	InstallFailedId
	InstallTimedOutId
	ConfigLoadFailedId
	DescriptorExistsId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // documentation pages about this issue type
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

var (
	render = glamour.Render

	noDotfilesFoundIssue = &Issue{
		id: NoDotfilesFoundId,
		mdMsg: `
# No dotfiles found!

dotwell searched every root but did not find a single descriptor.

## Search locations (in order):
1. Your user config directory (e.g. ~/.config)
2. ~/dotfiles
3. ~/.dotfiles
4. /etc/nixos (when it exists)
5. The current directory

Hidden directories and ` + "`target`, `node_modules` and `build`" + ` are never searched.

## Things you can try:
- Create a descriptor next to your configuration:
~~~
$ dotwell init ~/dotfiles/zsh --compiler make
~~~

## Example dotwell.toml:
~~~toml
name = "zsh"
description = "Z shell configuration"
category = "shell"

[compiler]
type = "make"
~~~`,
	}

	descriptorMalformedIssue = &Issue{
		id: DescriptorMalformedId,
		mdMsg: `
# A descriptor could not be parsed!

A dotwell.toml or dotwell.json file was found but it is not valid. The bundle
was skipped and the rest of the scan continued.

## Common issues:
- Missing ` + "`name`" + ` or ` + "`compiler`" + `
- Unknown compiler ` + "`type`" + ` (valid: gcc, make, cargo, nix)
- TOML or JSON syntax errors

## Things you can try:
- Fix or remove the descriptor named in the warning above
- Check it parses on its own:
~~~
$ dotwell list
~~~`,
	}

	bundleNotFoundIssue = &Issue{
		id: BundleNotFoundId,
		mdMsg: `
# Bundle not found!

No discovered bundle has the name you asked for.

## Things you can try:
- List everything dotwell can see:
~~~
$ dotwell list
~~~

- Check for typos in the bundle name
- Names are case-sensitive`,
	}

	installerNotFoundIssue = &Issue{
		id: InstallerNotFoundId,
		mdMsg: `
# Build tool not found!

The bundle's compiler could not be started. dotwell runs ` + "`gcc`, `make`, `cargo` or `nix-build`" + `
(or your configured shell for install.sh) from your PATH.

## Things you can try:
- Install the missing tool and make sure it is on your PATH
- For install.sh scripts, set a different shell in your config:
~~~cue
install: shell: "sh"
~~~

- Or run install.sh in the built-in shell:
~~~cue
install: virtual_shell: true
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Install failed!

The build tool ran but exited with a non-zero status. Its output is shown above.

## Things you can try:
- Run the same command by hand in the bundle directory
- Check the bundle's dependencies are installed`,
	}

	installTimedOutIssue = &Issue{
		id: InstallTimedOutId,
		mdMsg: `
# Install timed out!

The build tool did not finish within the configured timeout and was stopped.

## Things you can try:
- Raise the limit, or set it to 0 to disable it:
~~~cue
install: timeout: "30m"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The config file exists but could not be read or does not match the schema.
dotwell fell back to its defaults.

## Things you can try:
- Show the effective configuration and where it came from:
~~~
$ dotwell config show
~~~

- Check the file for CUE syntax errors or unknown keys`,
	}

	descriptorExistsIssue = &Issue{
		id: DescriptorExistsId,
		mdMsg: `
# A descriptor already exists!

` + "`dotwell init`" + ` never overwrites an existing dotwell.toml or dotwell.json.

## Things you can try:
- Edit the existing descriptor instead
- Remove it first if you really want a fresh scaffold`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Things you can try:
- Check file and directory permissions
- Run dotwell from a directory you own`,
	}

	issues = map[Id]*Issue{
		noDotfilesFoundIssue.Id():     noDotfilesFoundIssue,
		descriptorMalformedIssue.Id(): descriptorMalformedIssue,
		bundleNotFoundIssue.Id():      bundleNotFoundIssue,
		installerNotFoundIssue.Id():   installerNotFoundIssue,
		installFailedIssue.Id():       installFailedIssue,
		installTimedOutIssue.Id():     installTimedOutIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		descriptorExistsIssue.Id():    descriptorExistsIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
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

// Render renders the issue's markdown with the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
