package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SeenTable  string

	// Upstream API configuration
	NewsAPIURL    string
	NewsAPIKey    string
	NewsAPISecret string
	DefaultFrom   string
	PageSize      int
	MaxPages      int

	// Broker configuration
	KafkaSecret  string
	RawTopic     string
	CuratedTopic string

	// Application configuration
	SourcesDir        string
	Port              string
	SchedulerInterval int
	RunOnce           bool
	APIAccessKey      string
	Environment       string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
