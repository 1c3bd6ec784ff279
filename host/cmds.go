package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "vmtranslator"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})

	// Translate commands
	tr := root.AddSubtree(cmd.TreeDescriptor{Name: "translate", Brief: "Translate commands"})
	tr.AddCommand(cmd.CommandDescriptor{
		Name:  "file",
		Brief: "Translate a VM file and save the assembly",
		Description: "Run the translator on the specified .vm file," +
			" producing a .asm file next to it if successful.",
		Usage: "translate file <filename>",
		Data:  (*Host).cmdTranslateFile,
	})
	tr.AddCommand(cmd.CommandDescriptor{
		Name:  "directory",
		Brief: "Translate a directory of VM files",
		Description: "Run the translator on every .vm file in the specified" +
			" directory, in sorted order, producing one combined .asm file" +
			" named after the directory.",
		Usage: "translate directory <path>",
		Data:  (*Host).cmdTranslateDir,
	})
	tr.AddCommand(cmd.CommandDescriptor{
		Name:  "text",
		Brief: "Translate VM commands entered interactively",
		Description: "Start interactive translation mode. A new prompt will" +
			" appear, allowing you to enter VM commands one line at a time." +
			" Once you type a lone '.', the commands are translated and the" +
			" assembly output is displayed.",
		Usage: "translate text",
		Data:  (*Host).cmdTranslateText,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})

	// Add command shortcuts.
	root.AddShortcut("t", "translate file")
	root.AddShortcut("tf", "translate file")
	root.AddShortcut("td", "translate directory")
	root.AddShortcut("tt", "translate text")
	root.AddShortcut("?", "help")

	cmds = root
}
