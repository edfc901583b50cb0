package caso

func ptr(s string) *string { return &s }

// DemoCasos returns the records loaded on startup. Ids are left empty so
// Seed assigns fresh ones on every boot.
func DemoCasos() []Caso {
	return []Caso{
		{
			Nombre:      "🔴 Error crítico en login",
			Descripcion: "Los usuarios no pueden iniciar sesión con redes sociales",
			Estado:      "nuevo",
			Prioridad:   PrioridadAlta,
			Responsable: ptr("Juan Pérez"),
		},
		{
			Nombre:      "🟡 Mejorar UI del dashboard",
			Descripcion: "Hacer la interfaz más moderna y responsiva",
			Estado:      "en progreso",
			Prioridad:   PrioridadMedia,
			Responsable: ptr("María García"),
		},
		{
			Nombre:      "🟢 Documentar API REST",
			Descripcion: "Crear documentación completa de todos los endpoints",
			Estado:      "completado",
			Prioridad:   PrioridadBaja,
		},
		{
			Nombre:      "🔵 Implementar búsqueda global",
			Descripcion: "Agregar barra de búsqueda en el dashboard",
			Estado:      "nuevo",
			Prioridad:   PrioridadMedia,
			Responsable: ptr("Carlos López"),
		},
		{
			Nombre:      "⚪ Optimizar base de datos",
			Descripcion: "Revisar índices y queries lentos",
			Estado:      "nuevo",
			Prioridad:   PrioridadBaja,
		},
	}
}
