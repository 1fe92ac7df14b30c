package core

func (c *Core) Ping() string {
	return "voicecart pong"
}
