package server

// Server объединяет HTTP сервера отдельных сущностей. Пока это только рынок.
type Server struct {
	MarketServer
}

func NewServer(
	marketServer MarketServer,
) Server {
	return Server{
		MarketServer: marketServer,
	}
}
