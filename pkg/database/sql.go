// Package database persiste los resultados de cada consulta en
// PostgreSQL. Cada resultado se inserta completo dentro de una
// transacción: la consulta, sus meses y sus totales, por categoría.
package database

import (
	"database/sql"
	"fmt"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	_ "github.com/lib/pq" // driver PostgreSQL
)

type DatabaseService struct {
	db *sql.DB
}

func NewDatabaseService(connectionString string) (*DatabaseService, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("error conectando a la base de datos: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error verificando la base de datos: %w", err)
	}

	return &DatabaseService{db: db}, nil
}

func (ds *DatabaseService) Close() error {
	return ds.db.Close()
}

// CrearEsquema crea las tablas si no existen
func (ds *DatabaseService) CrearEsquema() error {
	esquema := `
	CREATE TABLE IF NOT EXISTS empresas (
		id SERIAL PRIMARY KEY,
		rut TEXT NOT NULL UNIQUE,
		nombre TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS consultas (
		id SERIAL PRIMARY KEY,
		empresa_id INTEGER NOT NULL REFERENCES empresas(id),
		contribuyente TEXT,
		rut_portal TEXT,
		fecha_consulta TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS honorarios_mensual (
		id SERIAL PRIMARY KEY,
		consulta_id INTEGER NOT NULL REFERENCES consultas(id),
		categoria TEXT NOT NULL,
		periodo TEXT NOT NULL,
		folio_inicial BIGINT,
		folio_final BIGINT,
		vigentes BIGINT NOT NULL,
		anuladas BIGINT NOT NULL,
		honorario_bruto BIGINT NOT NULL,
		retencion_terceros BIGINT NOT NULL,
		retencion_contribuyente BIGINT NOT NULL,
		total_liquido BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS honorarios_totales (
		id SERIAL PRIMARY KEY,
		consulta_id INTEGER NOT NULL REFERENCES consultas(id),
		categoria TEXT NOT NULL,
		vigentes BIGINT NOT NULL,
		anuladas BIGINT NOT NULL,
		honorario_bruto BIGINT NOT NULL,
		retencion_terceros BIGINT NOT NULL,
		retencion_contribuyente BIGINT NOT NULL,
		total_liquido BIGINT NOT NULL,
		UNIQUE (consulta_id, categoria)
	);

	CREATE TABLE IF NOT EXISTS bte_mensual (
		id SERIAL PRIMARY KEY,
		consulta_id INTEGER NOT NULL REFERENCES consultas(id),
		categoria TEXT NOT NULL,
		periodo TEXT NOT NULL,
		cantidad BIGINT NOT NULL,
		monto_neto BIGINT NOT NULL,
		monto_exento BIGINT NOT NULL,
		monto_iva BIGINT NOT NULL,
		monto_total BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bte_totales (
		id SERIAL PRIMARY KEY,
		consulta_id INTEGER NOT NULL REFERENCES consultas(id),
		categoria TEXT NOT NULL,
		cantidad BIGINT NOT NULL,
		monto_neto BIGINT NOT NULL,
		monto_exento BIGINT NOT NULL,
		monto_iva BIGINT NOT NULL,
		monto_total BIGINT NOT NULL,
		UNIQUE (consulta_id, categoria)
	);`

	if _, err := ds.db.Exec(esquema); err != nil {
		return fmt.Errorf("error creando el esquema: %w", err)
	}
	return nil
}

// GuardarResultado inserta el resultado completo de una empresa. Las
// categorías en nil no generan filas.
func (ds *DatabaseService) GuardarResultado(empresa *models.Empresa, resultado *models.ResultadoEmpresa) error {
	tx, err := ds.db.Begin()
	if err != nil {
		return fmt.Errorf("error iniciando la transacción: %w", err)
	}
	defer tx.Rollback()

	// 1. Upsert de la empresa
	empresaID, err := ds.insertEmpresa(tx, empresa)
	if err != nil {
		return fmt.Errorf("error insertando empresa: %w", err)
	}

	// 2. Cabecera de la consulta
	consultaID, err := ds.insertConsulta(tx, empresaID, resultado)
	if err != nil {
		return fmt.Errorf("error insertando consulta: %w", err)
	}

	// 3. Honorarios por categoría
	if resultado.BoletasEmitidas != nil {
		if err := ds.insertHonorarios(tx, consultaID, "emitidas", resultado.BoletasEmitidas); err != nil {
			return fmt.Errorf("error insertando boletas emitidas: %w", err)
		}
	}
	if resultado.BoletasRecibidas != nil {
		if err := ds.insertHonorarios(tx, consultaID, "recibidas", resultado.BoletasRecibidas); err != nil {
			return fmt.Errorf("error insertando boletas recibidas: %w", err)
		}
	}

	// 4. BTE por categoría
	if resultado.BTERecibidas != nil {
		if err := ds.insertBTE(tx, consultaID, "recibidas", resultado.BTERecibidas); err != nil {
			return fmt.Errorf("error insertando BTE recibidas: %w", err)
		}
	}
	if resultado.BTEEmitidas != nil {
		if err := ds.insertBTE(tx, consultaID, "emitidas", resultado.BTEEmitidas); err != nil {
			return fmt.Errorf("error insertando BTE emitidas: %w", err)
		}
	}

	return tx.Commit()
}

func (ds *DatabaseService) insertEmpresa(tx *sql.Tx, empresa *models.Empresa) (int64, error) {
	query := `
	INSERT INTO empresas (rut, nombre)
	VALUES ($1, $2)
	ON CONFLICT (rut) DO UPDATE SET
		nombre = EXCLUDED.nombre,
		updated_at = CURRENT_TIMESTAMP
	RETURNING id`

	var empresaID int64
	err := tx.QueryRow(query, empresa.Rut, empresa.Nombre).Scan(&empresaID)
	return empresaID, err
}

func (ds *DatabaseService) insertConsulta(tx *sql.Tx, empresaID int64, resultado *models.ResultadoEmpresa) (int64, error) {
	var consultaID int64
	err := tx.QueryRow(`
		INSERT INTO consultas (empresa_id, contribuyente, rut_portal, fecha_consulta)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		empresaID, resultado.Contribuyente, resultado.Rut, resultado.FechaConsulta).Scan(&consultaID)
	return consultaID, err
}

func (ds *DatabaseService) insertHonorarios(tx *sql.Tx, consultaID int64, categoria string, resumen *models.ResumenHonorarios) error {
	for _, mes := range resumen.Meses {
		_, err := tx.Exec(`
			INSERT INTO honorarios_mensual (
				consulta_id, categoria, periodo, folio_inicial, folio_final,
				vigentes, anuladas, honorario_bruto, retencion_terceros,
				retencion_contribuyente, total_liquido
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			consultaID, categoria, mes.Periodo, mes.FolioInicial, mes.FolioFinal,
			mes.Vigentes, mes.Anuladas, mes.HonorarioBruto, mes.RetencionTerceros,
			mes.RetencionContribuyente, mes.TotalLiquido)
		if err != nil {
			return err
		}
	}

	t := resumen.Totales
	_, err := tx.Exec(`
		INSERT INTO honorarios_totales (
			consulta_id, categoria, vigentes, anuladas, honorario_bruto,
			retencion_terceros, retencion_contribuyente, total_liquido
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		consultaID, categoria, t.Vigentes, t.Anuladas, t.HonorarioBruto,
		t.RetencionTerceros, t.RetencionContribuyente, t.TotalLiquido)
	return err
}

func (ds *DatabaseService) insertBTE(tx *sql.Tx, consultaID int64, categoria string, resumen *models.ResumenBTE) error {
	for _, mes := range resumen.Meses {
		_, err := tx.Exec(`
			INSERT INTO bte_mensual (
				consulta_id, categoria, periodo, cantidad,
				monto_neto, monto_exento, monto_iva, monto_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			consultaID, categoria, mes.Periodo, mes.Cantidad,
			mes.MontoNeto, mes.MontoExento, mes.MontoIVA, mes.MontoTotal)
		if err != nil {
			return err
		}
	}

	t := resumen.Totales
	_, err := tx.Exec(`
		INSERT INTO bte_totales (
			consulta_id, categoria, cantidad, monto_neto,
			monto_exento, monto_iva, monto_total
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		consultaID, categoria, t.Cantidad, t.MontoNeto,
		t.MontoExento, t.MontoIVA, t.MontoTotal)
	return err
}
