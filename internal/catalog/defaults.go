package catalog

// Default alias names used by the pipeline's special cases.
const (
	DefaultBrowserAlias = "chrome"
	DefaultEditorAlias  = "notepad"
)

// DefaultEntries is the built-in alias table for a stock Windows desktop.
func DefaultEntries() []Entry {
	return []Entry{
		{Alias: "notepad", Path: `${SystemRoot}\System32\notepad.exe`, WindowTitle: "Notepad"},
		{Alias: "calc", Path: `${SystemRoot}\System32\calc.exe`, WindowTitle: "Calculator"},
		{Alias: "calculator", Path: `${SystemRoot}\System32\calc.exe`, WindowTitle: "Calculator"},
		{Alias: "paint", Path: `${SystemRoot}\System32\mspaint.exe`, WindowTitle: "Paint"},
		{Alias: "explorer", Path: `${SystemRoot}\explorer.exe`, WindowTitle: "File Explorer"},
		{Alias: "cmd", Path: `${SystemRoot}\System32\cmd.exe`, WindowTitle: "Command Prompt"},
		{Alias: "chrome", Path: `${ProgramFiles}\Google\Chrome\Application\chrome.exe`, WindowTitle: "Google Chrome"},
		{Alias: "edge", Path: `${ProgramFiles(x86)}\Microsoft\Edge\Application\msedge.exe`, WindowTitle: "Microsoft Edge"},
		{Alias: "firefox", Path: `${ProgramFiles}\Mozilla Firefox\firefox.exe`, WindowTitle: "Mozilla Firefox"},
		{Alias: "word", Path: `${ProgramFiles}\Microsoft Office\root\Office16\WINWORD.EXE`, WindowTitle: "Word", Heavy: true},
		{Alias: "excel", Path: `${ProgramFiles}\Microsoft Office\root\Office16\EXCEL.EXE`, WindowTitle: "Excel", Heavy: true},
		{Alias: "powerpoint", Path: `${ProgramFiles}\Microsoft Office\root\Office16\POWERPNT.EXE`, WindowTitle: "PowerPoint", Heavy: true},
		{Alias: "vscode", Path: `${LOCALAPPDATA}\Programs\Microsoft VS Code\Code.exe`, WindowTitle: "Visual Studio Code", Heavy: true},
		{Alias: "code", Path: `${LOCALAPPDATA}\Programs\Microsoft VS Code\Code.exe`, WindowTitle: "Visual Studio Code", Heavy: true},
		{Alias: "spotify", Path: `${APPDATA}\Spotify\Spotify.exe`, WindowTitle: "Spotify"},
		{Alias: "discord", Path: `${LOCALAPPDATA}\Discord\Update.exe`},
		{Alias: "terminal", WindowTitle: "Terminal"},
	}
}
