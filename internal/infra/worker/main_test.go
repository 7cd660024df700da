package worker

// promauto registers globally, so the package shares one instance.
var testMetrics = NewWorkerMetrics()
