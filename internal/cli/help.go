package cli

import "io"

// ShowHelp prints usage information for rosterctl.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `rosterctl
=========

Terminal client for the contest roster service.

Usage:
  rosterctl [global options] <command> [command options]

Global options:
  -url string
        Base URL of the service (default "http://localhost:9080", env CONTEST_URL)
  -session string
        Session id (env CONTEST_SESSION)
  -timeout duration
        HTTP request timeout (default 30s)
  -no-color
        Disable colored output
  -help
        Show this help message

Commands:
  session                                   open a session and print its id
  close-session                             close the current session
  contestants | judges | weights            list a table
  add-contestant    -name N -skills "A, B"
  update-contestant -name N -new-name M -skills "A, B"
  remove-contestant -name N
  add-judge         -name N -skills "A, B"
  update-judge      -name N -new-name M -skills "A, B"
  remove-judge      -name N
  set-weight        -skill S -weight 1..100
  score             -judge J -contestant C -skill S -score 1..100 [-id SUBMISSION]
  scores                                    show the score log
  totals                                    weighted total per contestant
  leaderboard       [-limit N]              ranked totals

Examples:
  export CONTEST_SESSION=$(rosterctl session -quiet)
  rosterctl add-contestant -name Dana -skills "Music, Dance"
  rosterctl score -judge Judge1 -contestant Dana -skill Music -score 88
  rosterctl leaderboard -limit 3
`)
}
