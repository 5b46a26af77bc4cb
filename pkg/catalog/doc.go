// Package catalog reads the webarchive metadata catalog.
//
// A catalog is a JSON array of group records (one per archived domain), each
// embedding the snapshots captured for that group:
//
//	[
//	  {
//	    "id": "...", "ehs_group": "g1", "ehs_domain": "https://a.ch",
//	    "wayback_date": 20190901163213,
//	    "snapshots": [
//	      {"ehs_urn_id": "bel-1", "ehs_group": "g1",
//	       "ehs_start_url": "https://a.ch", "ehs_wayback_date": 20190901163213}
//	    ]
//	  }
//	]
//
// [Read] decodes the array one group at a time so that catalogs with tens of
// thousands of entries never sit in memory as a raw document. Heavy fields
// that no downstream consumer needs are dropped while decoding; every other
// field is kept verbatim so the cleaned catalog can be written back out for
// the viewer.
//
// Duplicate identifiers are not fatal: the later record replaces the earlier
// one and the event is logged and counted in [ReadStats].
package catalog
