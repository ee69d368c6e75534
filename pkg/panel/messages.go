package panel

import "fmt"

// User-facing messages.
const (
	msgLoadingList      = "Cargando exploraciones guardadas..."
	msgLoadingDetails   = "Cargando detalles de la exploración..."
	msgGeneratingTests  = "Generando casos de prueba..."
	msgLoadingTests     = "Cargando casos de prueba..."
	msgVerifyingDriver  = "Verificando ChromeDriver..."
	msgGeneratingCode   = "Generando código para el caso de prueba..."
	msgExecuting        = "Ejecutando test en modo visual..."
	msgDeleting         = "Eliminando exploración..."
	msgConfirmDelete    = "¿Está seguro de que desea eliminar esta exploración? Esta acción no se puede deshacer."
	msgNoExplorations   = "No hay exploraciones guardadas"
	msgListError        = "Error al cargar las exploraciones guardadas: "
	msgDetailsError     = "Error al cargar los detalles de la exploración: "
	msgDeleted          = "Exploración eliminada correctamente"
	msgNoMore           = "No hay más exploraciones guardadas"
	msgDeleteError      = "Error al eliminar la exploración: "
	msgGenerateTestsErr = "Error al generar casos de prueba: "
	msgNoTestCases      = "No hay casos de prueba para esta exploración"
	msgLoadTestsError   = "Error al cargar los casos de prueba: "
	msgTestNotFound     = "No se encontró el caso de prueba"
	msgCodeNotFound     = "No se encontró el código para este test"
	msgCopied           = "Código copiado al portapapeles"
	msgSimpleCodeOK     = "Código simple generado correctamente (modo visual)"
	msgLegacyCodeOK     = "Código generado correctamente (modo estándar)"
	msgCodeError        = "Error al generar código: "
	msgSimpleRunOK      = "Test ejecutado correctamente en modo visual"
	msgLegacyRunOK      = "Test ejecutado en modo estándar"
	msgRunFailed        = "El test falló: "
	msgRunTimeout       = "Tiempo de espera agotado para el test"
	msgRunError         = "Error al ejecutar el test: "
	msgDriverRequired   = "Por favor, ingresa una ruta para ChromeDriver"
	msgDriverOK         = "ChromeDriver verificado correctamente"
	msgDriverError      = "Error al verificar ChromeDriver: "
	msgDriverLogsTitle  = "Resultado de la verificación:"
	msgClipboardError   = "Error al copiar el código: "
)

func generatedTestsMsg(n int) string {
	return fmt.Sprintf("Se han generado %d casos de prueba", n)
}
