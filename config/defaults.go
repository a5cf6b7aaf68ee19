package config

import "time"

// Default values used when neither the config file, the environment nor the
// command line set a value.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultWebRoot        = "www"
	DefaultConfigFile     = "config.json"
	DefaultAccessLogDir   = "logs"
	DefaultLogLevel       = "info"
	DefaultLogOutput      = "stdout"
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxConnections = 0 // unbounded
	DefaultGzipCacheSize  = 128
	DefaultAPIHost        = "127.0.0.1"
	DefaultAPIPort        = 9090
)

// DefaultIndexPage is written to the web root on first start when no
// index.html exists.
const DefaultIndexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>staticd</title>
</head>
<body>
  <h1>It works!</h1>
  <p>Replace this page with your own index.html.</p>
</body>
</html>
`

// DefaultNotFoundPage is written to the web root on first start when no
// 404.html exists. It is served for every request that does not match a
// file.
const DefaultNotFoundPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>404 Not Found</title>
</head>
<body>
  <h1>404 Not Found</h1>
  <p>The requested file does not exist on this server.</p>
</body>
</html>
`
