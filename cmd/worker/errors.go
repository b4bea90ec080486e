package worker

import "errors"

var errNoBroker = errors.New(`worker needs notifications.transport: "nats"`)
