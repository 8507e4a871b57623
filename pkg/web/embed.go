package web

import _ "embed"

// studentPage is the self-contained monitoring dashboard. It connects to
// /ws for gaze updates and /ws/camera for the raw frame stream.
//
//go:embed static/student.html
var studentPage string
