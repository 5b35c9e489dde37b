package enemystats

import "brotherowl-backend/lib/telemetry"

var tracer = telemetry.Tracer("services.enemystats")
